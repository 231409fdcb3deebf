package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 결과, DB row에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3
//   Coordinator  Extractor  Sentiment  Summary

// StageName identifies a pipeline stage
type StageName string

const (
	// StageCoordinator S0: 리포트 로딩 및 실행 계획
	// 책임: report_content / report_path 해석, 컨텍스트 초기화
	// 위치: internal/s0_coordinator/
	StageCoordinator StageName = "coordinator"

	// StageExtractor S1: 재무 지표 추출
	// 책임: 정규식 기반 재무/세그먼트/가이던스 추출, 퍼센트 정규화
	// 위치: internal/s1_extraction/
	StageExtractor StageName = "data_extractor"

	// StageSentiment S2: 감성 분석
	// 책임: 키워드 휴리스틱 또는 외부 분류기 기반 감성/톤 판정
	// 위치: internal/s2_sentiment/
	StageSentiment StageName = "sentiment_analyzer"

	// StageSummary S3: 투자 의견 요약
	// 책임: 점수 기반 BUY/HOLD/SELL, 헤드라인, 요약문
	// 위치: internal/s3_summary/
	StageSummary StageName = "summary_generator"
)

// String returns the stage name
func (s StageName) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s StageName) ShortName() string {
	switch s {
	case StageCoordinator:
		return "S0"
	case StageExtractor:
		return "S1"
	case StageSentiment:
		return "S2"
	case StageSummary:
		return "S3"
	default:
		return "UNKNOWN"
	}
}

// Description returns Korean description of the stage
func (s StageName) Description() string {
	switch s {
	case StageCoordinator:
		return "리포트 로딩/실행 계획"
	case StageExtractor:
		return "재무 지표 추출"
	case StageSentiment:
		return "감성 분석"
	case StageSummary:
		return "투자 의견 요약"
	default:
		return "알 수 없음"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []StageName {
	return []StageName{
		StageCoordinator,
		StageExtractor,
		StageSentiment,
		StageSummary,
	}
}

// AnalysisStages returns the stages the coordinator schedules after itself
func AnalysisStages() []StageName {
	return AllStages()[1:]
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageStatus is the lifecycle state of a stage runner
type StageStatus string

const (
	StatusReady     StageStatus = "ready"
	StatusRunning   StageStatus = "running"
	StatusSucceeded StageStatus = "succeeded"
	StatusFailed    StageStatus = "failed"
)

// StageResult is the outcome of one stage invocation.
// 한 번 만들어지면 수정하지 않음 (Runner가 ProcessingTime만 기록)
type StageResult struct {
	Stage          StageName              `json:"stage"`
	Status         StageStatus            `json:"status"`
	Data           map[string]interface{} `json:"data"`
	Errors         []string               `json:"errors,omitempty"`
	ProcessingTime float64                `json:"processing_time_seconds"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// NewStageResult builds a succeeded result
func NewStageResult(stage StageName, data map[string]interface{}) *StageResult {
	if data == nil {
		data = map[string]interface{}{}
	}
	return &StageResult{
		Stage:  stage,
		Status: StatusSucceeded,
		Data:   data,
	}
}

// FailedResult builds a failed result carrying the given messages
func FailedResult(stage StageName, errs ...string) *StageResult {
	return &StageResult{
		Stage:  stage,
		Status: StatusFailed,
		Data:   map[string]interface{}{},
		Errors: errs,
	}
}

// Succeeded reports whether the stage finished without failure
func (r *StageResult) Succeeded() bool {
	return r != nil && r.Status == StatusSucceeded
}

// Input is the keyed mapping handed to every stage
type Input map[string]interface{}

// Input keys
const (
	InputReportPath    = "report_path"
	InputReportContent = "report_content"
)

// Has reports whether key is present (even with an empty value)
func (in Input) Has(key string) bool {
	if in == nil {
		return false
	}
	_, ok := in[key]
	return ok
}

// String returns the value at key when it is a string
func (in Input) String(key string) (string, bool) {
	if in == nil {
		return "", false
	}
	v, ok := in[key].(string)
	return v, ok
}
