package contracts

import "math"

// Sentiment labels
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Management tone labels
const (
	ToneOptimistic          = "optimistic"
	ToneOptimisticCautious  = "optimistic_cautious"
	ToneCautiousPessimistic = "cautious_pessimistic"
	ToneNeutral             = "neutral"
)

// Sentiment strategies
const (
	StrategyHeuristic = "heuristic"
	StrategyExternal  = "external"
)

// IsValidSentiment checks the overall_sentiment enum
func IsValidSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// IsValidTone checks the management_tone enum
func IsValidTone(s string) bool {
	switch s {
	case ToneOptimistic, ToneOptimisticCautious, ToneCautiousPessimistic, ToneNeutral:
		return true
	}
	return false
}

// SentimentAnalysis is the S2 output
type SentimentAnalysis struct {
	OverallSentiment      string   `json:"overall_sentiment"`
	Confidence            float64  `json:"confidence"`
	ManagementTone        string   `json:"management_tone"`
	KeyPositiveIndicators []string `json:"key_positive_indicators"`
	KeyNegativeIndicators []string `json:"key_negative_indicators"`
	RiskFactorsIdentified []string `json:"risk_factors_identified"`
	Strategy              string   `json:"strategy,omitempty"`
}

// Recommendation labels
const (
	RecommendationBuy  = "BUY"
	RecommendationHold = "HOLD"
	RecommendationSell = "SELL"
)

// ExecutiveSummary is the S3 output
type ExecutiveSummary struct {
	Headline        string  `json:"headline"`
	Summary         string  `json:"summary"`
	Recommendation  string  `json:"recommendation"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// ClampConfidence clamps c to [0, 1] and rounds to two decimals
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return math.Round(c*100) / 100
}
