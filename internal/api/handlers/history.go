package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/earnings-analyzer/backend/internal/audit"
	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// ReportStore reads persisted analyses
type ReportStore interface {
	Get(ctx context.Context, analysisID string) (*contracts.AnalysisReport, error)
	List(ctx context.Context, limit int) ([]audit.ReportSummary, error)
	RecentStats(ctx context.Context, limit int) (*audit.Stats, error)
}

// HistoryHandler serves stored analyses. A nil store disables the endpoints.
type HistoryHandler struct {
	store  ReportStore
	logger *logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(store ReportStore, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		store:  store,
		logger: log,
	}
}

func (h *HistoryHandler) available(w http.ResponseWriter) bool {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Persistence is disabled")
		return false
	}
	return true
}

// ListAnalyses returns recent analyses
// GET /api/analyses?limit=50
func (h *HistoryHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	limit := queryInt(r, "limit", 50, 500)
	summaries, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list analyses")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve analyses")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": summaries,
		"count":    len(summaries),
	})
}

// GetAnalysis returns one stored report
// GET /api/analyses/{id}
func (h *HistoryHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	id := mux.Vars(r)["id"]
	report, err := h.store.Get(r.Context(), id)
	if errors.Is(err, audit.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Analysis not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("analysis_id", id).Error("Failed to get analysis")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve analysis")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetStats summarizes recent analyses
// GET /api/analyses/stats?limit=200
func (h *HistoryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	stats, err := h.store.RecentStats(r.Context(), queryInt(r, "limit", 200, 1000))
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute analysis stats")
		respondError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
