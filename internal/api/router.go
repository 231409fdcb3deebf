package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/earnings-analyzer/backend/internal/api/handlers"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Analysis *handlers.AnalysisHandler
	History  *handlers.HistoryHandler
	Stages   *handlers.StageHandler
	Events   http.Handler // websocket hub, nil = disabled
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Stages.Health).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Pipeline endpoints
	api.HandleFunc("/stages", h.Stages.ListStages).Methods("GET")
	api.HandleFunc("/runs/{id}", h.Stages.GetRun).Methods("GET")
	api.HandleFunc("/analyze", h.Analysis.Analyze).Methods("POST")

	// History endpoints (stats 가 {id} 보다 먼저)
	api.HandleFunc("/analyses", h.History.ListAnalyses).Methods("GET")
	api.HandleFunc("/analyses/stats", h.History.GetStats).Methods("GET")
	api.HandleFunc("/analyses/{id}", h.History.GetAnalysis).Methods("GET")

	// Realtime stage events
	if h.Events != nil {
		r.Handle("/ws/runs", h.Events).Methods("GET")
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// websocket 업그레이드는 Hijacker 가 필요하므로 래핑하지 않음
			if r.Header.Get("Upgrade") == "websocket" {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
