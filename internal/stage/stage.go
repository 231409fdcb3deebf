package stage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// Stage is one processing step of the pipeline
// ⭐ SSOT: 모든 스테이지는 이 인터페이스를 구현
type Stage interface {
	Name() contracts.StageName
	Validate(input contracts.Input) bool
	Execute(ctx context.Context, input contracts.Input, actx *contracts.AnalysisContext) (*contracts.StageResult, error)
}

// DefaultValidate accepts any non-nil, non-empty keyed mapping
func DefaultValidate(input contracts.Input) bool {
	return len(input) > 0
}

// Runner wraps a Stage and owns its lifecycle status.
// 하나의 Runner가 동시에 여러 run을 처리할 수 있으므로 status는 mutex로 보호
type Runner struct {
	stage  Stage
	logger *logger.Logger

	mu     sync.RWMutex
	status contracts.StageStatus
}

// NewRunner creates a runner in the ready state
func NewRunner(s Stage, log *logger.Logger) *Runner {
	return &Runner{
		stage:  s,
		logger: log.WithStage(s.Name().String()),
		status: contracts.StatusReady,
	}
}

// Name returns the wrapped stage name
func (r *Runner) Name() contracts.StageName {
	return r.stage.Name()
}

// Status returns the outcome of the most recent run
func (r *Runner) Status() contracts.StageStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Reset returns the runner to ready
func (r *Runner) Reset() {
	r.setStatus(contracts.StatusReady)
}

func (r *Runner) setStatus(s contracts.StageStatus) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// Run validates, executes and times the stage. It never returns an error
// and never panics: every fault becomes a failed StageResult.
func (r *Runner) Run(ctx context.Context, input contracts.Input, actx *contracts.AnalysisContext) *contracts.StageResult {
	start := time.Now()
	name := r.stage.Name()

	if !r.stage.Validate(input) {
		result := contracts.FailedResult(name, fmt.Sprintf("invalid input data for %s", name))
		r.finish(result, start)
		r.logger.Warn("Stage input validation failed")
		return result
	}

	r.setStatus(contracts.StatusRunning)
	r.logger.Debug("Stage started")

	result := r.execute(ctx, input, actx)
	r.finish(result, start)

	if result.Succeeded() {
		r.logger.WithField("duration_s", result.ProcessingTime).Debug("Stage succeeded")
	} else {
		r.logger.WithFields(map[string]interface{}{
			"duration_s": result.ProcessingTime,
			"errors":     result.Errors,
		}).Warn("Stage failed")
	}

	return result
}

func (r *Runner) execute(ctx context.Context, input contracts.Input, actx *contracts.AnalysisContext) (result *contracts.StageResult) {
	name := r.stage.Name()

	defer func() {
		if p := recover(); p != nil {
			result = contracts.FailedResult(name, fmt.Sprintf("%v", p))
		}
	}()

	res, err := r.stage.Execute(ctx, input, actx)
	if err != nil {
		return contracts.FailedResult(name, err.Error())
	}
	if res == nil {
		return contracts.FailedResult(name, fmt.Sprintf("%s returned no result", name))
	}
	return res
}

func (r *Runner) finish(result *contracts.StageResult, start time.Time) {
	result.ProcessingTime = time.Since(start).Seconds()
	r.setStatus(result.Status)
}
