package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/earnings-analyzer/backend/internal/realtime"
	"github.com/wonny/earnings-analyzer/backend/internal/stage"
)

// Version is reported by /health
const Version = "1.0.0"

// RunTracker exposes in-flight run progress
type RunTracker interface {
	Get(runID string) (*realtime.RunState, bool)
}

// StageHandler reports stage and run status
type StageHandler struct {
	registry *stage.Registry
	runs     RunTracker
}

// NewStageHandler creates a new stage handler. runs may be nil.
func NewStageHandler(registry *stage.Registry, runs RunTracker) *StageHandler {
	return &StageHandler{
		registry: registry,
		runs:     runs,
	}
}

// Health returns server health status
// GET /health
func (h *StageHandler) Health(w http.ResponseWriter, r *http.Request) {
	available := make([]string, 0)
	for _, info := range h.registry.Statuses() {
		available = append(available, info.Name.String())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "healthy",
		"service":          "earnings-analyzer-api",
		"timestamp":        time.Now().UTC(),
		"agents_available": available,
		"version":          Version,
	})
}

// ListStages returns every stage with its last run status
// GET /api/stages
func (h *StageHandler) ListStages(w http.ResponseWriter, r *http.Request) {
	stages := h.registry.Statuses()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stages": stages,
		"total":  len(stages),
	})
}

// GetRun returns live progress of a run
// GET /api/runs/{id}
func (h *StageHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusServiceUnavailable, "Run tracking is disabled")
		return
	}

	state, ok := h.runs.Get(mux.Vars(r)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "Run not found")
		return
	}

	respondJSON(w, http.StatusOK, state)
}
