package contracts

import "time"

// AnalysisContext is the single mutable record shared by every stage of one run.
// ⭐ SSOT: 스테이지 간 데이터 전달은 이 구조체로만
//
// nil 섹션 = 해당 스테이지가 결과를 만들지 못함
type AnalysisContext struct {
	RunID         string
	ReportContent string
	ReportSource  string // 파일 경로 / URL / "inline"
	ExecutionPlan *ExecutionPlan

	Financials *FinancialMetrics
	Segments   *SegmentPerformance
	Guidance   *ForwardGuidance
	Provenance Provenance

	Sentiment *SentimentAnalysis
	Summary   *ExecutiveSummary

	Errors    []string
	StartedAt time.Time
}

// NewAnalysisContext creates an empty context for one run
func NewAnalysisContext(runID string) *AnalysisContext {
	return &AnalysisContext{
		RunID:      runID,
		Provenance: Provenance{},
		Errors:     []string{},
		StartedAt:  time.Now(),
	}
}

// HasReport reports whether the coordinator loaded a non-empty report
func (c *AnalysisContext) HasReport() bool {
	return c != nil && c.ReportContent != ""
}

// AddError appends a run-level error message
func (c *AnalysisContext) AddError(msg string) {
	c.Errors = append(c.Errors, msg)
}

// ExecutionPlan is written by the coordinator. Informational only:
// 오케스트레이터는 이 목록과 무관하게 고정 순서로 실행
type ExecutionPlan struct {
	AgentsToExecute []StageName `json:"agents_to_execute"`
	ReportLength    int         `json:"report_length"`
	InitializedAt   time.Time   `json:"initialized_at"`
}
