package s3_summary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

func TestScoreAndRecommendation(t *testing.T) {
	tests := []struct {
		name      string
		yoy       float64
		margin    float64
		sentiment string
		wantScore int
		wantRec   string
	}{
		{"all negative", -0.05, 0.05, contracts.SentimentNegative, -3, contracts.RecommendationSell},
		{"sell boundary", 0, 0.05, contracts.SentimentNegative, -2, contracts.RecommendationSell},
		{"hold low", 0, 0.15, contracts.SentimentNegative, -1, contracts.RecommendationHold},
		{"hold zero", 0, 0.15, contracts.SentimentNeutral, 0, contracts.RecommendationHold},
		{"hold one", 0.10, 0.15, contracts.SentimentNeutral, 1, contracts.RecommendationHold},
		{"hold two", 0.10, 0.25, contracts.SentimentNeutral, 2, contracts.RecommendationHold},
		{"buy boundary", 0.20, 0.25, contracts.SentimentNeutral, 3, contracts.RecommendationBuy},
		{"buy max", 0.20, 0.35, contracts.SentimentPositive, 5, contracts.RecommendationBuy},
		{"growth threshold exclusive", 0.15, 0.15, contracts.SentimentNeutral, 1, contracts.RecommendationHold},
		{"moderate growth exclusive", 0.08, 0.15, contracts.SentimentNeutral, 0, contracts.RecommendationHold},
		{"margin threshold exclusive", 0, 0.30, contracts.SentimentNeutral, 1, contracts.RecommendationHold},
		{"weak margin exclusive", 0, 0.10, contracts.SentimentNeutral, 0, contracts.RecommendationHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Score(tt.yoy, tt.margin, tt.sentiment)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantRec, RecommendationForScore(score))
		})
	}
}

func TestRecommendationForScore_Range(t *testing.T) {
	want := map[int]string{
		-3: contracts.RecommendationSell,
		-2: contracts.RecommendationSell,
		-1: contracts.RecommendationHold,
		0:  contracts.RecommendationHold,
		1:  contracts.RecommendationHold,
		2:  contracts.RecommendationHold,
		3:  contracts.RecommendationBuy,
		4:  contracts.RecommendationBuy,
	}
	for score, rec := range want {
		assert.Equal(t, rec, RecommendationForScore(score), "score %d", score)
	}
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0.81, Confidence(0.85, 0.285))
	assert.Equal(t, 0.44, Confidence(0.5, 0))
	assert.Equal(t, 0.88, Confidence(0.85, 0.5))
}

func TestHeadline(t *testing.T) {
	assert.Equal(t, HeadlineStrong, Headline(contracts.SentimentPositive, 0.12))
	assert.Equal(t, HeadlinePositive, Headline(contracts.SentimentPositive, 0.10))
	assert.Equal(t, HeadlineNegative, Headline(contracts.SentimentNegative, 0.30))
	assert.Equal(t, HeadlineMixed, Headline(contracts.SentimentNeutral, 0.30))
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "16.0", amount(16))
	assert.Equal(t, "15.2", amount(15.2))
	assert.Equal(t, "3.8", amount(3.8))
}

func fullContext() *contracts.AnalysisContext {
	actx := contracts.NewAnalysisContext("run")
	actx.Financials = &contracts.FinancialMetrics{
		Revenue:         &contracts.MoneyMetric{Value: 15.2, Unit: contracts.UnitBillionUSD, YoYChange: 0.12},
		NetIncome:       &contracts.MoneyMetric{Value: 3.8, Unit: contracts.UnitBillionUSD, YoYChange: 0.21},
		OperatingMargin: &contracts.MarginMetric{Current: 0.285, Previous: 0.262, Trend: contracts.TrendImproving},
	}
	actx.Segments = &contracts.SegmentPerformance{
		CloudServices: &contracts.CloudSegment{Revenue: 6.1, GrowthRate: 0.40},
	}
	actx.Sentiment = &contracts.SentimentAnalysis{
		OverallSentiment: contracts.SentimentPositive,
		Confidence:       0.85,
	}
	return actx
}

func TestSummarize_FullNarrative(t *testing.T) {
	s := New(DefaultThresholds(), logger.Nop())
	got := s.Summarize(fullContext())

	want := "TechCorp International delivered Q3 2024 results with 12% revenue growth to $15.2B and 21% net income growth to $3.8B. " +
		"The cloud services division led performance with 40% YoY growth, while AI solutions gained significant traction with enterprise customers. " +
		"Overall margins improved to 28%. Management maintains cautiously optimistic outlook with Q4 guidance provided, though acknowledges risks from competition, regulation, and macroeconomic factors. " +
		"Strong cash generation supports capital allocation initiatives including buyback programs and dividend increases."

	assert.Equal(t, want, got.Summary)
	assert.Equal(t, HeadlineStrong, got.Headline)
	// growth 1 + margin 1 + sentiment 1
	assert.Equal(t, contracts.RecommendationBuy, got.Recommendation)
	assert.Equal(t, 0.81, got.ConfidenceScore)
}

func TestSummarize_NoCloudSentenceWithoutGrowth(t *testing.T) {
	actx := fullContext()
	actx.Segments.CloudServices.GrowthRate = 0
	actx.Sentiment.OverallSentiment = contracts.SentimentNeutral
	actx.Financials.OperatingMargin.Current = 0.2

	got := New(DefaultThresholds(), logger.Nop()).Summarize(actx)
	assert.NotContains(t, got.Summary, "cloud services division")
	assert.Contains(t, got.Summary, "Overall margins remained at 20%.")
	assert.Contains(t, got.Summary, "Management maintains cautious outlook")
}

func TestSummarize_FallbackNarrative(t *testing.T) {
	actx := contracts.NewAnalysisContext("run")
	actx.Sentiment = &contracts.SentimentAnalysis{OverallSentiment: contracts.SentimentNegative, Confidence: 0.5}

	got := New(DefaultThresholds(), logger.Nop()).Summarize(actx)
	assert.Equal(t, FallbackNarrative, got.Summary)
	assert.Equal(t, HeadlineNegative, got.Headline)
	// growth 0 + margin -1 + sentiment -1
	assert.Equal(t, contracts.RecommendationSell, got.Recommendation)
}

func TestSynthesizerStage(t *testing.T) {
	s := New(DefaultThresholds(), logger.Nop())

	t.Run("no upstream", func(t *testing.T) {
		actx := contracts.NewAnalysisContext("run")
		result, err := s.Execute(context.Background(), contracts.Input{"report_content": ""}, actx)
		require.NoError(t, err)
		assert.Equal(t, []string{"no upstream analysis available for summary"}, result.Errors)
		assert.Nil(t, actx.Summary)
	})

	t.Run("empty financials still summarize", func(t *testing.T) {
		actx := contracts.NewAnalysisContext("run")
		actx.Financials = &contracts.FinancialMetrics{}

		result, err := s.Execute(context.Background(), contracts.Input{"report_content": "x"}, actx)
		require.NoError(t, err)
		assert.True(t, result.Succeeded())
		require.NotNil(t, actx.Summary)
		assert.Equal(t, HeadlineMixed, actx.Summary.Headline)
		assert.Equal(t, 0.44, actx.Summary.ConfidenceScore)
	})
}
