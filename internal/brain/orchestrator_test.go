package brain

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []contracts.StageEvent
}

func (r *recordingObserver) Publish(event contracts.StageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

type memoryStore struct {
	saved []*contracts.AnalysisReport
	err   error
}

func (m *memoryStore) Save(_ context.Context, report *contracts.AnalysisReport) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, report)
	return nil
}

func newTestOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	log := logger.Nop()
	reg, err := NewPipeline(PipelineConfig{}, log)
	require.NoError(t, err)
	return NewOrchestrator(reg, log, opts...)
}

func TestRun_FullReport(t *testing.T) {
	o := newTestOrchestrator(t)

	report, err := o.AnalyzeFile(context.Background(), filepath.Join("testdata", "sample_report.txt"))
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Empty(t, report.Errors)
	assert.True(t, report.Succeeded())
	assert.NotEmpty(t, report.AnalysisID)
	assert.Equal(t, contracts.AllStages(), report.AgentsExecuted)
	require.Len(t, report.StageResults, 4)
	for _, r := range report.StageResults {
		assert.Equal(t, contracts.StatusSucceeded, r.Status, r.Stage)
	}

	require.NotNil(t, report.FinancialMetrics)
	require.NotNil(t, report.FinancialMetrics.Revenue)
	assert.Equal(t, 15.2, report.FinancialMetrics.Revenue.Value)
	assert.InDelta(t, 0.14, report.FinancialMetrics.Revenue.YoYChange, 1e-9)
	require.NotNil(t, report.FinancialMetrics.OperatingMargin)
	assert.InDelta(t, 0.32, report.FinancialMetrics.OperatingMargin.Current, 1e-9)

	require.NotNil(t, report.SentimentAnalysis)
	assert.Equal(t, contracts.SentimentPositive, report.SentimentAnalysis.OverallSentiment)
	assert.Equal(t, 0.85, report.SentimentAnalysis.Confidence)

	require.NotNil(t, report.ExecutiveSummary)
	assert.Equal(t, contracts.RecommendationBuy, report.ExecutiveSummary.Recommendation)

	assert.True(t, report.Metadata.AgentsCoordinationSuccess)
	assert.Equal(t, 4, report.Metadata.StagesSucceeded)
	assert.Greater(t, report.Metadata.ReportLength, 0)
}

func TestRun_EmptyContentFailsEveryStage(t *testing.T) {
	o := newTestOrchestrator(t)

	report, err := o.Analyze(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, report.Errors, 4)
	assert.Equal(t, "coordinator failed: report content is empty", report.Errors[0])
	assert.Contains(t, report.Errors[1], "data_extractor failed:")
	assert.Contains(t, report.Errors[2], "sentiment_analyzer failed:")
	assert.Equal(t, "summary_generator failed: no upstream analysis available for summary", report.Errors[3])

	assert.Nil(t, report.FinancialMetrics)
	assert.Nil(t, report.ExecutiveSummary)
	assert.False(t, report.Metadata.AgentsCoordinationSuccess)

	// 실패해도 다섯 섹션 키는 항상 존재
	raw, err := json.Marshal(report)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"financial_metrics", "segment_performance", "forward_guidance", "sentiment_analysis", "executive_summary", "errors"} {
		assert.Contains(t, decoded, key)
	}
}

func TestRun_NonexistentPath(t *testing.T) {
	o := newTestOrchestrator(t)

	report, err := o.AnalyzeFile(context.Background(), filepath.Join("testdata", "missing.txt"))
	require.NoError(t, err)

	require.NotEmpty(t, report.Errors)
	assert.Contains(t, report.Errors[0], "coordinator failed: failed to read report file:")
	assert.Len(t, report.Errors, 4)
}

func TestRun_EmptyInputFailsValidation(t *testing.T) {
	o := newTestOrchestrator(t)

	report, err := o.Run(context.Background(), RunConfig{RunID: "run-1"})
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.AnalysisID)
	require.Len(t, report.Errors, 4)
	assert.Equal(t, "coordinator failed: invalid input data for coordinator", report.Errors[0])
}

func TestRun_CancelledContext(t *testing.T) {
	o := newTestOrchestrator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := o.Analyze(ctx, "Total revenue was $15.2 billion.")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, report)
}

func TestRun_ObserverAndStore(t *testing.T) {
	obs := &recordingObserver{}
	store := &memoryStore{}
	o := newTestOrchestrator(t, WithObserver(obs), WithStore(store))

	report, err := o.Run(context.Background(), RunConfig{
		RunID: "run-42",
		Input: contracts.Input{contracts.InputReportContent: "Total revenue was $15.2 billion."},
	})
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	assert.Same(t, report, store.saved[0])

	// run_started + 4 × (started, finished) + run_finished
	require.Len(t, obs.events, 10)
	assert.Equal(t, contracts.EventRunStarted, obs.events[0].Type)
	assert.Equal(t, contracts.EventStageStarted, obs.events[1].Type)
	assert.Equal(t, contracts.StageCoordinator, obs.events[1].Stage)
	assert.Equal(t, contracts.EventStageFinished, obs.events[2].Type)
	assert.Equal(t, contracts.StatusSucceeded, obs.events[2].Status)
	assert.Equal(t, contracts.EventRunFinished, obs.events[9].Type)
	for _, e := range obs.events {
		assert.Equal(t, "run-42", e.RunID)
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestRun_StoreFailureDoesNotFailRun(t *testing.T) {
	o := newTestOrchestrator(t, WithStore(&memoryStore{err: errors.New("db down")}))

	report, err := o.Analyze(context.Background(), "Total revenue was $15.2 billion.")
	require.NoError(t, err)
	assert.NotNil(t, report)
}

func TestRun_ConcurrentRunsAreIsolated(t *testing.T) {
	o := newTestOrchestrator(t)

	var wg sync.WaitGroup
	reports := make([]*contracts.AnalysisReport, 8)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := "Total revenue was $15.2 billion."
			if i%2 == 1 {
				content = ""
			}
			r, err := o.Analyze(context.Background(), content)
			if err == nil {
				reports[i] = r
			}
		}(i)
	}
	wg.Wait()

	for i, r := range reports {
		require.NotNil(t, r)
		if i%2 == 1 {
			assert.Len(t, r.Errors, 4)
		} else {
			assert.Empty(t, r.Errors)
			assert.Equal(t, 15.2, r.FinancialMetrics.Revenue.Value)
		}
	}
}

func TestStageFailure(t *testing.T) {
	r := contracts.FailedResult(contracts.StageExtractor, "a", "b")
	assert.Equal(t, "data_extractor failed: a; b", StageFailure(r))
}

func TestBuildReport_DefaultedFields(t *testing.T) {
	actx := contracts.NewAnalysisContext("r")
	actx.Provenance.Record("revenue.yoy_change", contracts.SourceDefaulted)
	actx.Provenance.Record("revenue.value", contracts.SourceExtracted)

	results := []*contracts.StageResult{
		contracts.NewStageResult(contracts.StageCoordinator, nil),
		contracts.FailedResult(contracts.StageExtractor, "x"),
	}
	report := BuildReport(actx, results, 0)

	assert.Equal(t, []string{"revenue.yoy_change"}, report.Metadata.DefaultedFields)
	assert.Equal(t, 1, report.Metadata.StagesSucceeded)
	assert.False(t, report.Metadata.AgentsCoordinationSuccess)
	assert.Equal(t, []contracts.StageName{contracts.StageCoordinator, contracts.StageExtractor}, report.AgentsExecuted)
}
