package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/earnings-analyzer/backend/internal/brain"
	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/internal/s0_coordinator"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
	"github.com/wonny/earnings-analyzer/backend/pkg/redis"
)

// ReportCache caches finished reports by content hash
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Limiter guards the analyze endpoint
type Limiter interface {
	Allow(ctx context.Context, cfg redis.RateLimitConfig) (bool, int, error)
}

// AnalysisHandler runs the pipeline over submitted reports
// ⭐ SSOT: 분석 요청 API 핸들러는 이 구조체에서만
type AnalysisHandler struct {
	orchestrator *brain.Orchestrator
	cache        ReportCache
	limiter      Limiter
	rateLimit    redis.RateLimitConfig
	cacheTTL     time.Duration
	logger       *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler. cache and limiter may be nil.
func NewAnalysisHandler(
	orchestrator *brain.Orchestrator,
	cache ReportCache,
	limiter Limiter,
	cacheTTL time.Duration,
	log *logger.Logger,
) *AnalysisHandler {
	if cacheTTL <= 0 {
		cacheTTL = redis.TTLDaily
	}
	return &AnalysisHandler{
		orchestrator: orchestrator,
		cache:        cache,
		limiter:      limiter,
		rateLimit:    redis.AnalyzeRateLimit,
		cacheTTL:     cacheTTL,
		logger:       log,
	}
}

// AnalyzeRequest represents an analysis request
type AnalyzeRequest struct {
	RunID         string                 `json:"run_id,omitempty"`
	ReportPath    string                 `json:"report_path,omitempty"`
	ReportContent *string                `json:"report_content,omitempty"`
	Options       map[string]interface{} `json:"options,omitempty"` // 호환용, 현재 미사용
}

// AnalyzeResponse wraps a finished report
type AnalyzeResponse struct {
	AnalysisID     string                    `json:"analysis_id"`
	Status         string                    `json:"status"` // "success", "completed_with_errors"
	Data           *contracts.AnalysisReport `json:"data"`
	ProcessingTime float64                   `json:"processing_time"`
	Errors         []string                  `json:"errors"`
	Cached         bool                      `json:"cached"`
}

const (
	StatusSuccess             = "success"
	StatusCompletedWithErrors = "completed_with_errors"
)

// Analyze runs the pipeline
// POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ReportPath == "" && req.ReportContent == nil {
		respondError(w, http.StatusBadRequest, "report_path or report_content is required")
		return
	}
	// 서버가 호출자 지정 URL 을 대신 가져오지 않음 (SSRF)
	if req.ReportContent == nil && s0_coordinator.IsURL(req.ReportPath) {
		respondError(w, http.StatusBadRequest, "remote report_path is not allowed; send report_content instead")
		return
	}

	if h.limiter != nil {
		allowed, remaining, err := h.limiter.Allow(ctx, h.rateLimit.ForClient(clientID(r)))
		if err != nil {
			// 레이트 리밋 장애 시 요청은 통과
			h.logger.WithError(err).Warn("Rate limiter unavailable")
		} else if !allowed {
			respondError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		} else {
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}
	}

	input := contracts.Input{}
	cacheKey := ""
	if req.ReportContent != nil {
		input[contracts.InputReportContent] = *req.ReportContent
		cacheKey = redis.AnalysisKey(*req.ReportContent)
	} else {
		input[contracts.InputReportPath] = req.ReportPath
	}

	if cacheKey != "" && h.cache != nil {
		var cached contracts.AnalysisReport
		hit, err := h.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			h.logger.WithError(err).Warn("Failed to read analysis cache")
		} else if hit {
			respondJSON(w, http.StatusOK, newAnalyzeResponse(&cached, true))
			return
		}
	}

	report, err := h.orchestrator.Run(ctx, brain.RunConfig{RunID: req.RunID, Input: input})
	if err != nil {
		h.logger.WithError(err).Warn("Analysis aborted")
		respondError(w, http.StatusServiceUnavailable, "Analysis aborted")
		return
	}

	// 에러 없는 결과만 캐시
	if cacheKey != "" && h.cache != nil && report.Succeeded() {
		if err := h.cache.Set(ctx, cacheKey, report, h.cacheTTL); err != nil {
			h.logger.WithError(err).Warn("Failed to write analysis cache")
		}
	}

	respondJSON(w, http.StatusOK, newAnalyzeResponse(report, false))
}

func newAnalyzeResponse(report *contracts.AnalysisReport, cached bool) AnalyzeResponse {
	status := StatusSuccess
	if !report.Succeeded() {
		status = StatusCompletedWithErrors
	}
	errs := report.Errors
	if errs == nil {
		errs = []string{}
	}
	return AnalyzeResponse{
		AnalysisID:     report.AnalysisID,
		Status:         status,
		Data:           report,
		ProcessingTime: report.ProcessingTimeSeconds,
		Errors:         errs,
		Cached:         cached,
	}
}
