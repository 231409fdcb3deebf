package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
)

func TestResolveInput(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		content    string
		contentSet bool
		useStdin   bool
		stdin      string
		want       contracts.Input
		wantErr    bool
	}{
		{
			name: "path argument",
			args: []string{"q3.txt"},
			want: contracts.Input{contracts.InputReportPath: "q3.txt"},
		},
		{
			name:       "content wins over path",
			args:       []string{"q3.txt"},
			content:    "Revenue $1B",
			contentSet: true,
			want:       contracts.Input{contracts.InputReportContent: "Revenue $1B"},
		},
		{
			name:       "empty content is still content",
			contentSet: true,
			want:       contracts.Input{contracts.InputReportContent: ""},
		},
		{
			name:     "stdin",
			useStdin: true,
			stdin:    "from stdin",
			want:     contracts.Input{contracts.InputReportContent: "from stdin"},
		},
		{
			name:    "nothing given",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveInput(tt.args, tt.content, tt.contentSet, tt.useStdin, strings.NewReader(tt.stdin))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	report := &contracts.AnalysisReport{
		AnalysisID: "run-1",
		Errors:     []string{},
	}

	require.NoError(t, writeReport(&buf, report))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["analysis_id"])
	assert.Contains(t, buf.String(), "\n  \"analysis_id\"")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "api", "compare", "scheduler", "rules"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "14.0%", formatPercent(0.14))
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
}
