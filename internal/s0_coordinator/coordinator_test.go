package s0_coordinator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

type stubSource struct {
	content string
	err     error
	calls   int
}

func (s *stubSource) Load(ctx context.Context, path string) (string, error) {
	s.calls++
	return s.content, s.err
}

func TestValidate(t *testing.T) {
	c := New(&stubSource{}, logger.Nop())

	tests := []struct {
		name  string
		input contracts.Input
		want  bool
	}{
		{"nil", nil, false},
		{"empty", contracts.Input{}, false},
		{"unrelated key", contracts.Input{"x": 1}, false},
		{"content", contracts.Input{contracts.InputReportContent: "r"}, true},
		{"empty content", contracts.Input{contracts.InputReportContent: ""}, true},
		{"path", contracts.Input{contracts.InputReportPath: "a.txt"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Validate(tt.input))
		})
	}
}

func TestExecute_InlineContent(t *testing.T) {
	src := &stubSource{}
	c := New(src, logger.Nop())
	actx := contracts.NewAnalysisContext("run-1")

	result, err := c.Execute(context.Background(), contracts.Input{
		contracts.InputReportContent: "Revenue: $15.2 billion",
		contracts.InputReportPath:    "ignored.txt",
	}, actx)
	require.NoError(t, err)

	assert.True(t, result.Succeeded())
	assert.Equal(t, "ready", result.Data["coordination_status"])
	assert.Equal(t, 0, src.calls)

	assert.Equal(t, "Revenue: $15.2 billion", actx.ReportContent)
	assert.Equal(t, SourceInline, actx.ReportSource)
	require.NotNil(t, actx.ExecutionPlan)
	assert.Equal(t, len("Revenue: $15.2 billion"), actx.ExecutionPlan.ReportLength)
	assert.Equal(t, []contracts.StageName{
		contracts.StageExtractor, contracts.StageSentiment, contracts.StageSummary,
	}, actx.ExecutionPlan.AgentsToExecute)
}

func TestExecute_PathReadFailure(t *testing.T) {
	c := New(&stubSource{err: errors.New("no such file or directory")}, logger.Nop())
	actx := contracts.NewAnalysisContext("run-2")

	result, err := c.Execute(context.Background(), contracts.Input{contracts.InputReportPath: "missing.txt"}, actx)
	require.NoError(t, err)

	assert.Equal(t, contracts.StatusFailed, result.Status)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "failed to read report file: no such file or directory", result.Errors[0])
	assert.Empty(t, actx.ReportContent)
	assert.Nil(t, actx.ExecutionPlan)
}

func TestExecute_EmptyContent(t *testing.T) {
	c := New(&stubSource{}, logger.Nop())
	actx := contracts.NewAnalysisContext("run-3")

	result, err := c.Execute(context.Background(), contracts.Input{contracts.InputReportContent: ""}, actx)
	require.NoError(t, err)

	assert.Equal(t, []string{"report content is empty"}, result.Errors)
	assert.False(t, actx.HasReport())
}

func TestExecute_EmptyPath(t *testing.T) {
	c := New(&stubSource{}, logger.Nop())

	result, err := c.Execute(context.Background(), contracts.Input{contracts.InputReportPath: ""}, contracts.NewAnalysisContext("r"))
	require.NoError(t, err)
	assert.Equal(t, []string{"no report_path or report_content provided"}, result.Errors)
}

func TestFileSource_NonexistentPath(t *testing.T) {
	c := New(NewFileSource(nil), logger.Nop())
	actx := contracts.NewAnalysisContext("run-4")

	path := filepath.Join(t.TempDir(), "does-not-exist.txt")
	result, err := c.Execute(context.Background(), contracts.Input{contracts.InputReportPath: path}, actx)
	require.NoError(t, err)

	assert.Equal(t, contracts.StatusFailed, result.Status)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to read report file: ")
}

func TestFileSource_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q3.txt")
	require.NoError(t, os.WriteFile(path, []byte("Net income: $3.8 billion"), 0o644))

	text, err := NewFileSource(nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Net income: $3.8 billion", text)
}
