package contracts

import (
	"encoding/json"
	"time"
)

// AnalysisReport is the aggregate returned for every run.
// 다섯 개 섹션 키와 errors 는 항상 존재 (nil 섹션은 {} 로 직렬화)
type AnalysisReport struct {
	AnalysisID            string              `json:"analysis_id"`
	Timestamp             time.Time           `json:"timestamp"`
	ProcessingTimeSeconds float64             `json:"processing_time_seconds"`
	AgentsExecuted        []StageName         `json:"agents_executed"`
	FinancialMetrics      *FinancialMetrics   `json:"financial_metrics"`
	SegmentPerformance    *SegmentPerformance `json:"segment_performance"`
	ForwardGuidance       *ForwardGuidance    `json:"forward_guidance"`
	SentimentAnalysis     *SentimentAnalysis  `json:"sentiment_analysis"`
	ExecutiveSummary      *ExecutiveSummary   `json:"executive_summary"`
	Errors                []string            `json:"errors"`
	StageResults          []*StageResult      `json:"stage_results"`
	Metadata              ReportMetadata      `json:"metadata"`
}

// ReportMetadata carries run diagnostics
type ReportMetadata struct {
	ReportSource              string   `json:"report_source,omitempty"`
	ReportLength              int      `json:"report_length"`
	DefaultedFields           []string `json:"defaulted_fields"`
	StagesSucceeded           int      `json:"stages_succeeded"`
	AgentsCoordinationSuccess bool     `json:"agents_coordination_success"`
}

// Succeeded reports whether every stage succeeded
func (r *AnalysisReport) Succeeded() bool {
	return len(r.Errors) == 0
}

// MarshalJSON renders nil sections as empty objects and nil lists as []
func (r AnalysisReport) MarshalJSON() ([]byte, error) {
	type alias AnalysisReport

	empty := struct{}{}
	out := struct {
		alias
		FinancialMetrics   interface{}    `json:"financial_metrics"`
		SegmentPerformance interface{}    `json:"segment_performance"`
		ForwardGuidance    interface{}    `json:"forward_guidance"`
		SentimentAnalysis  interface{}    `json:"sentiment_analysis"`
		ExecutiveSummary   interface{}    `json:"executive_summary"`
		Errors             []string       `json:"errors"`
		AgentsExecuted     []StageName    `json:"agents_executed"`
		StageResults       []*StageResult `json:"stage_results"`
	}{
		alias:              alias(r),
		FinancialMetrics:   empty,
		SegmentPerformance: empty,
		ForwardGuidance:    empty,
		SentimentAnalysis:  empty,
		ExecutiveSummary:   empty,
		Errors:             r.Errors,
		AgentsExecuted:     r.AgentsExecuted,
		StageResults:       r.StageResults,
	}

	if r.FinancialMetrics != nil {
		out.FinancialMetrics = r.FinancialMetrics
	}
	if r.SegmentPerformance != nil {
		out.SegmentPerformance = r.SegmentPerformance
	}
	if r.ForwardGuidance != nil {
		out.ForwardGuidance = r.ForwardGuidance
	}
	if r.SentimentAnalysis != nil {
		out.SentimentAnalysis = r.SentimentAnalysis
	}
	if r.ExecutiveSummary != nil {
		out.ExecutiveSummary = r.ExecutiveSummary
	}
	if out.Errors == nil {
		out.Errors = []string{}
	}
	if out.AgentsExecuted == nil {
		out.AgentsExecuted = []StageName{}
	}
	if out.StageResults == nil {
		out.StageResults = []*StageResult{}
	}
	if out.Metadata.DefaultedFields == nil {
		out.Metadata.DefaultedFields = []string{}
	}

	return json.Marshal(out)
}

// StageEventType distinguishes runner lifecycle notifications
type StageEventType string

const (
	EventRunStarted    StageEventType = "run_started"
	EventStageStarted  StageEventType = "stage_started"
	EventStageFinished StageEventType = "stage_finished"
	EventRunFinished   StageEventType = "run_finished"
)

// StageEvent is emitted by the orchestrator while a run progresses
type StageEvent struct {
	Type      StageEventType `json:"type"`
	RunID     string         `json:"run_id"`
	Stage     StageName      `json:"stage,omitempty"`
	Status    StageStatus    `json:"status,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
