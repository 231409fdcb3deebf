package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int32 // 처음 N 번 실패
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		return errors.New("transient")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	return New(logger.Nop(), WithRetry(2, time.Millisecond))
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "0 */5 * * * *"}))
	assert.Error(t, s.AddJob(&fakeJob{name: "a", schedule: "0 */5 * * * *"}), "duplicate")
	assert.Error(t, s.AddJob(&fakeJob{name: "b", schedule: "not a cron"}))

	assert.Equal(t, []string{"a"}, s.GetAllJobs())
}

func TestRunJobSync_RetriesThenSucceeds(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "flaky", schedule: "@hourly", failures: 2}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJobSync(context.Background(), "flaky"))
	assert.Equal(t, int32(3), job.calls.Load())

	history, err := s.GetJobHistory("flaky")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.Equal(t, 3, history.Results[0].Attempts)

	stats := s.GetJobStats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.Equal(t, 1.0, stats.SuccessRate)
	require.NotNil(t, stats.LastSuccess)
}

func TestRunJobSync_FailsAfterRetries(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "broken", schedule: "@hourly", failures: 100}
	require.NoError(t, s.AddJob(job))

	err := s.RunJobSync(context.Background(), "broken")
	require.Error(t, err)
	assert.Equal(t, int32(3), job.calls.Load())

	history, err := s.GetJobHistory("broken")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.False(t, history.Results[0].Success)
	assert.Equal(t, "transient", history.Results[0].Error)
}

func TestRunJobSync_UnknownJob(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.RunJobSync(context.Background(), "missing"))
	assert.Error(t, s.RunJob("missing"))
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Empty(t, s.GetJobStats())
	assert.Error(t, s.RemoveJob("a"))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 120; i++ {
		h.AddResult(JobResult{Success: i%4 != 0})
	}

	assert.Len(t, h.Results, 100)
	assert.Len(t, h.GetLatestResults(5), 5)
	assert.Len(t, h.GetFailedResults(), 25)
	assert.Equal(t, 0.75, h.GetSuccessRate())
	assert.Equal(t, 0.0, (&JobHistory{}).GetSuccessRate())
}

type describedJob struct {
	fakeJob
}

func (j *describedJob) Describe() string { return "analyzed=2" }

func TestRunJobSync_RecordsDetail(t *testing.T) {
	s := newTestScheduler()
	job := &describedJob{fakeJob{name: "batch", schedule: "@hourly"}}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJobSync(context.Background(), "batch"))

	history, err := s.GetJobHistory("batch")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.Equal(t, "analyzed=2", history.Results[0].Detail)
	assert.Equal(t, 1, history.Results[0].Attempts)
}
