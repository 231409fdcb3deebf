package scheduler

import (
	"context"
	"time"
)

// Job is a unit of work the scheduler runs on a cron schedule
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string

	// Run executes one pass. 에러가 나면 스케줄러가 재시도
	Run(ctx context.Context) error

	// Schedule returns a cron expression with a seconds field
	// e.g. "0 */15 * * * *" (15분마다), "@hourly"
	Schedule() string
}

// Describer is implemented by jobs that can summarize their last pass
type Describer interface {
	Describe() string
}

// maxHistory bounds the results kept per job
const maxHistory = 100

// JobResult is the outcome of one scheduled or manual run
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Detail    string        `json:"detail,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps the most recent results of a job
type JobHistory struct {
	Results []JobResult
}

// AddResult appends a result, dropping the oldest past maxHistory
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if over := len(h.Results) - maxHistory; over > 0 {
		h.Results = h.Results[over:]
	}
}

// GetLatestResults returns up to n most recent results
func (h *JobHistory) GetLatestResults(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	if n <= 0 {
		return []JobResult{}
	}
	return h.Results[len(h.Results)-n:]
}

// GetFailedResults returns all failed results
func (h *JobHistory) GetFailedResults() []JobResult {
	failed := make([]JobResult, 0)
	for _, result := range h.Results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// GetSuccessRate returns the success rate (0.0 - 1.0)
func (h *JobHistory) GetSuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}
	return float64(len(h.Results)-len(h.GetFailedResults())) / float64(len(h.Results))
}
