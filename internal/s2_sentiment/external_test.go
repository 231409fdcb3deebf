package s2_sentiment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

type fakeClassifier struct {
	response string
	err      error
	panics   interface{}
	last     GenerateRequest
	calls    int
}

func (f *fakeClassifier) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	f.calls++
	f.last = req
	if f.panics != nil {
		panic(f.panics)
	}
	return f.response, f.err
}

const validVerdict = "```json\n" + `{
  "overall_sentiment": "positive",
  "confidence": 0.912,
  "management_tone": "optimistic_cautious",
  "key_positive_indicators": ["record cloud revenue"],
  "key_negative_indicators": ["hardware decline"],
  "risk_factors_identified": ["competition {pricing}"]
}` + "\n```"

func TestExternal_ValidVerdict(t *testing.T) {
	fc := &fakeClassifier{response: validVerdict}
	s := NewExternal(fc, nil, logger.Nop())

	got := s.Analyze(context.Background(), "Strong quarter.")

	assert.Equal(t, contracts.SentimentPositive, got.OverallSentiment)
	assert.Equal(t, 0.91, got.Confidence)
	assert.Equal(t, contracts.ToneOptimisticCautious, got.ManagementTone)
	assert.Equal(t, []string{"competition {pricing}"}, got.RiskFactorsIdentified)
	assert.Equal(t, contracts.StrategyExternal, got.Strategy)

	assert.Equal(t, 0.3, fc.last.Temperature)
	assert.Equal(t, 600, fc.last.MaxTokens)
	assert.Contains(t, fc.last.Prompt, "Strong quarter.")
}

func TestExternal_FallsBackToHeuristic(t *testing.T) {
	tests := []struct {
		name string
		fc   *fakeClassifier
	}{
		{"classifier error", &fakeClassifier{err: errors.New("429 Too Many Requests")}},
		{"no json", &fakeClassifier{response: "I cannot help with that."}},
		{"malformed json", &fakeClassifier{response: `{"overall_sentiment": "positive",}`}},
		{"bad sentiment enum", &fakeClassifier{response: `{"overall_sentiment": "mixed", "management_tone": "neutral"}`}},
		{"bad tone enum", &fakeClassifier{response: `{"overall_sentiment": "neutral", "management_tone": "upbeat"}`}},
		{"classifier panic", &fakeClassifier{panics: "nil map write"}},
		{"non-numeric confidence", &fakeClassifier{response: `{"overall_sentiment": "neutral", "management_tone": "neutral", "confidence": "high"}`}},
		{"list of numbers", &fakeClassifier{response: `{"overall_sentiment": "neutral", "management_tone": "neutral", "key_positive_indicators": [1, 2]}`}},
	}

	text := "We exceeded targets with strong, record growth and outstanding success."
	want := NewDefaultHeuristic().Score(text)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewExternal(tt.fc, nil, logger.Nop())
			got := s.Analyze(context.Background(), text)
			assert.Equal(t, want, got)
			assert.Equal(t, 1, tt.fc.calls)
		})
	}
}

func TestParseVerdict_MissingConfidence(t *testing.T) {
	got, err := ParseVerdict(`{"overall_sentiment": "neutral", "management_tone": "neutral"}`)
	require.NoError(t, err)
	assert.Equal(t, 0.75, got.Confidence)
	assert.Equal(t, []string{}, got.KeyPositiveIndicators)
}

func TestParseVerdict_ClampsConfidence(t *testing.T) {
	got, err := ParseVerdict(`{"overall_sentiment": "negative", "management_tone": "cautious_pessimistic", "confidence": 1.4}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Confidence)

	got, err = ParseVerdict(`{"overall_sentiment": "negative", "management_tone": "cautious_pessimistic", "confidence": -2}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Confidence)
}

func TestParseVerdict_NumericStringConfidence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"number", `0.85`, 0.85},
		{"quoted", `"0.85"`, 0.85},
		{"quoted with spaces", `" 0.6 "`, 0.6},
		{"quoted above range", `"1.7"`, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVerdict(`{"overall_sentiment": "positive", "management_tone": "optimistic", "confidence": ` + tt.raw + `}`)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Confidence)
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"surrounded", `here: {"a":{"b":2}} done`, `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}"} then {"b":1}`, `{"a":"}"}`, true},
		{"escaped quote", `{"a":"say \"}\" now"}`, `{"a":"say \"}\" now"}`, true},
		{"unbalanced", `{"a":1`, "", false},
		{"none", `no object`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstJSONObject(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPrompt_TruncatesExcerpt(t *testing.T) {
	long := strings.Repeat("가", ExcerptRunes+100)
	prompt := BuildPrompt(long)

	assert.Contains(t, prompt, strings.Repeat("가", ExcerptRunes))
	assert.NotContains(t, prompt, strings.Repeat("가", ExcerptRunes+1))
}

func TestScorerStage(t *testing.T) {
	t.Run("heuristic when no classifier", func(t *testing.T) {
		s := New(nil, nil, logger.Nop())
		assert.Equal(t, contracts.StrategyHeuristic, s.Strategy())
	})

	t.Run("external when classifier configured", func(t *testing.T) {
		s := New(&fakeClassifier{}, nil, logger.Nop())
		assert.Equal(t, contracts.StrategyExternal, s.Strategy())
	})

	t.Run("missing report", func(t *testing.T) {
		s := New(nil, nil, logger.Nop())
		actx := contracts.NewAnalysisContext("run")
		result, err := s.Execute(context.Background(), contracts.Input{"report_content": ""}, actx)
		require.NoError(t, err)
		assert.Equal(t, []string{"no report content available for sentiment analysis"}, result.Errors)
		assert.Nil(t, actx.Sentiment)
	})

	t.Run("writes context", func(t *testing.T) {
		s := New(nil, nil, logger.Nop())
		actx := contracts.NewAnalysisContext("run")
		actx.ReportContent = "The quarter closed."

		result, err := s.Execute(context.Background(), contracts.Input{"report_content": actx.ReportContent}, actx)
		require.NoError(t, err)
		assert.True(t, result.Succeeded())
		require.NotNil(t, actx.Sentiment)
		assert.Equal(t, contracts.SentimentNeutral, actx.Sentiment.OverallSentiment)
		assert.Equal(t, 0.5, actx.Sentiment.Confidence)
	})
}
