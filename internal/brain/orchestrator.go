package brain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/internal/stage"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// Observer receives lifecycle events while a run progresses
type Observer interface {
	Publish(event contracts.StageEvent)
}

// Store persists finished reports
type Store interface {
	Save(ctx context.Context, report *contracts.AnalysisReport) error
}

// Orchestrator runs the four stages in fixed order over a fresh context per run.
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	registry *stage.Registry
	observer Observer
	store    Store
	logger   *logger.Logger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithObserver streams StageEvents to obs
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// WithStore persists every finished report
func WithStore(store Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID string // 비어있으면 UUID 생성
	Input contracts.Input
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(registry *stage.Registry, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		logger:   log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry returns the stage registry
func (o *Orchestrator) Registry() *stage.Registry {
	return o.registry
}

// Run executes the complete pipeline
// S0 → S1 → S2 → S3
//
// A failed stage never stops the run: its errors are appended to the context
// and the next stage runs with whatever the context holds. The returned error
// is non-nil only when ctx is cancelled between stages.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) (*contracts.AnalysisReport, error) {
	startTime := time.Now()

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	actx := contracts.NewAnalysisContext(runID)
	log := o.logger.WithRun(runID)

	log.WithField("input_keys", inputKeys(cfg.Input)).Info("Starting pipeline run")
	o.emit(contracts.StageEvent{Type: contracts.EventRunStarted, RunID: runID})

	runners := o.registry.Runners()
	results := make([]*contracts.StageResult, 0, len(runners))

	for _, runner := range runners {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("Pipeline run aborted")
			return nil, fmt.Errorf("run %s aborted before %s: %w", runID, runner.Name(), err)
		}

		o.emit(contracts.StageEvent{
			Type:   contracts.EventStageStarted,
			RunID:  runID,
			Stage:  runner.Name(),
			Status: contracts.StatusRunning,
		})

		result := runner.Run(ctx, cfg.Input, actx)
		results = append(results, result)

		if !result.Succeeded() {
			actx.AddError(StageFailure(result))
		}

		o.emit(contracts.StageEvent{
			Type:   contracts.EventStageFinished,
			RunID:  runID,
			Stage:  runner.Name(),
			Status: result.Status,
			Errors: result.Errors,
		})
	}

	report := BuildReport(actx, results, time.Since(startTime))

	if o.store != nil {
		if err := o.store.Save(ctx, report); err != nil {
			// 저장 실패는 분석 결과에 영향 없음
			log.WithError(err).Warn("Failed to persist analysis report")
		}
	}

	o.emit(contracts.StageEvent{Type: contracts.EventRunFinished, RunID: runID, Errors: report.Errors})

	log.WithFields(map[string]interface{}{
		"duration_s":     report.ProcessingTimeSeconds,
		"errors":         len(report.Errors),
		"recommendation": recommendationOf(report),
	}).Info("Pipeline run completed")

	return report, nil
}

// Analyze runs the pipeline over inline report text
func (o *Orchestrator) Analyze(ctx context.Context, content string) (*contracts.AnalysisReport, error) {
	return o.Run(ctx, RunConfig{
		Input: contracts.Input{contracts.InputReportContent: content},
	})
}

// AnalyzeFile runs the pipeline over a report path or URL
func (o *Orchestrator) AnalyzeFile(ctx context.Context, path string) (*contracts.AnalysisReport, error) {
	return o.Run(ctx, RunConfig{
		Input: contracts.Input{contracts.InputReportPath: path},
	})
}

// StageFailure formats a failed result as a run-level error line
func StageFailure(result *contracts.StageResult) string {
	return fmt.Sprintf("%s failed: %s", result.Stage, strings.Join(result.Errors, "; "))
}

// BuildReport assembles the aggregate from the context and stage results
func BuildReport(actx *contracts.AnalysisContext, results []*contracts.StageResult, duration time.Duration) *contracts.AnalysisReport {
	executed := make([]contracts.StageName, 0, len(results))
	succeeded := 0
	for _, r := range results {
		executed = append(executed, r.Stage)
		if r.Succeeded() {
			succeeded++
		}
	}

	errs := make([]string, len(actx.Errors))
	copy(errs, actx.Errors)

	return &contracts.AnalysisReport{
		AnalysisID:            actx.RunID,
		Timestamp:             time.Now().UTC(),
		ProcessingTimeSeconds: duration.Seconds(),
		AgentsExecuted:        executed,
		FinancialMetrics:      actx.Financials,
		SegmentPerformance:    actx.Segments,
		ForwardGuidance:       actx.Guidance,
		SentimentAnalysis:     actx.Sentiment,
		ExecutiveSummary:      actx.Summary,
		Errors:                errs,
		StageResults:          results,
		Metadata: contracts.ReportMetadata{
			ReportSource:              actx.ReportSource,
			ReportLength:              len(actx.ReportContent),
			DefaultedFields:           actx.Provenance.Defaulted(),
			StagesSucceeded:           succeeded,
			AgentsCoordinationSuccess: len(results) > 0 && succeeded == len(results),
		},
	}
}

func (o *Orchestrator) emit(event contracts.StageEvent) {
	if o.observer == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	o.observer.Publish(event)
}

func inputKeys(input contracts.Input) []string {
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func recommendationOf(report *contracts.AnalysisReport) string {
	if report.ExecutiveSummary == nil {
		return ""
	}
	return string(report.ExecutiveSummary.Recommendation)
}
