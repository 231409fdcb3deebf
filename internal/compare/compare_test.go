package compare

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/earnings-analyzer/backend/internal/brain"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

func TestNormalize_DropsVolatileKeys(t *testing.T) {
	in := map[string]interface{}{
		"analysis_id":             "a",
		"timestamp":               "t",
		"processing_time_seconds": 1.5,
		"metadata": map[string]interface{}{
			"processing_time_seconds": 2.0,
			"report_length":           10.0,
		},
		"stage_results": []interface{}{
			map[string]interface{}{"stage": "coordinator", "processing_time_seconds": 0.1},
		},
	}

	out := Normalize(in).(map[string]interface{})
	assert.Equal(t, map[string]interface{}{
		"metadata": map[string]interface{}{"report_length": 10.0},
		"stage_results": []interface{}{
			map[string]interface{}{"stage": "coordinator"},
		},
	}, out)
}

func TestCompare_Equal(t *testing.T) {
	a := map[string]interface{}{
		"analysis_id":       "1",
		"financial_metrics": map[string]interface{}{"revenue": map[string]interface{}{"value": 15.2}},
		"metadata":          map[string]interface{}{"agents_coordination_success": true},
	}
	e := map[string]interface{}{
		"analysis_id":       "2",
		"financial_metrics": map[string]interface{}{"revenue": map[string]interface{}{"value": 15.2}},
		"metadata":          map[string]interface{}{"agents_coordination_success": true},
	}

	res := Compare(a, e)
	assert.True(t, res.Equal())
	require.Len(t, res.Metadata, 1)
	assert.True(t, res.Metadata[0].Match)
}

func TestCompare_Differences(t *testing.T) {
	a := map[string]interface{}{
		"financial_metrics": map[string]interface{}{"revenue": 15.2},
		"extra":             true,
	}
	e := map[string]interface{}{
		"financial_metrics":  map[string]interface{}{"revenue": 16.0},
		"sentiment_analysis": map[string]interface{}{},
	}

	res := Compare(a, e)
	assert.False(t, res.StructureMatches())
	assert.Equal(t, []string{"sentiment_analysis"}, res.Missing)
	assert.Equal(t, []string{"extra"}, res.Extra)
	require.Len(t, res.Differences, 1)
	assert.Equal(t, "financial_metrics", res.Differences[0].Section)

	var buf bytes.Buffer
	Render(&buf, res)
	out := buf.String()
	assert.Contains(t, out, "Missing sections: sentiment_analysis")
	assert.Contains(t, out, "financial_metrics:")
	assert.Contains(t, out, "OUTPUT HAS DIFFERENCES")
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	actual := filepath.Join(dir, "actual.json")
	expected := filepath.Join(dir, "expected.json")
	require.NoError(t, os.WriteFile(actual, []byte(`{"errors":[],"timestamp":"x"}`), 0o644))
	require.NoError(t, os.WriteFile(expected, []byte(`{"errors":[],"timestamp":"y"}`), 0o644))

	res, err := CompareFiles(actual, expected)
	require.NoError(t, err)
	assert.True(t, res.Equal())

	var buf bytes.Buffer
	Render(&buf, res)
	assert.Contains(t, buf.String(), "OUTPUT MATCHES EXPECTED FORMAT")

	require.NoError(t, os.WriteFile(expected, []byte(`{not json`), 0o644))
	_, err = CompareFiles(actual, expected)
	assert.Error(t, err)

	_, err = CompareFiles(filepath.Join(dir, "missing.json"), expected)
	assert.Error(t, err)
}

func TestCompare_TwoRunsOfSameReportAreEqual(t *testing.T) {
	reg, err := brain.NewPipeline(brain.PipelineConfig{}, logger.Nop())
	require.NoError(t, err)
	orch := brain.NewOrchestrator(reg, logger.Nop())

	path := filepath.Join("..", "brain", "testdata", "sample_report.txt")
	decode := func() map[string]interface{} {
		report, err := orch.AnalyzeFile(context.Background(), path)
		require.NoError(t, err)
		data, err := json.Marshal(report)
		require.NoError(t, err)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &out))
		return out
	}

	first := decode()
	time.Sleep(5 * time.Millisecond)
	second := decode()

	r := Compare(first, second)
	assert.Empty(t, r.Differences)
	assert.True(t, r.Equal())
}
