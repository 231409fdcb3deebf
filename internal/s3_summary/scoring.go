package s3_summary

import (
	"math"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
)

// Thresholds drive the recommendation score
// ⭐ SSOT: BUY/HOLD/SELL 판단 기준은 여기서만
type Thresholds struct {
	GrowthStrong   float64 // > : +2
	GrowthModerate float64 // > : +1
	MarginStrong   float64 // > : +2
	MarginModerate float64 // > : +1
	MarginWeak     float64 // < : -1
	BuyScore       int     // >= : BUY
	SellScore      int     // <= : SELL
}

// DefaultThresholds returns the built-in scoring thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		GrowthStrong:   0.15,
		GrowthModerate: 0.08,
		MarginStrong:   0.30,
		MarginModerate: 0.20,
		MarginWeak:     0.10,
		BuyScore:       3,
		SellScore:      -2,
	}
}

// GrowthScore scores revenue YoY growth
func (t Thresholds) GrowthScore(yoy float64) int {
	switch {
	case yoy > t.GrowthStrong:
		return 2
	case yoy > t.GrowthModerate:
		return 1
	case yoy < 0:
		return -1
	default:
		return 0
	}
}

// MarginScore scores the current operating margin
func (t Thresholds) MarginScore(margin float64) int {
	switch {
	case margin > t.MarginStrong:
		return 2
	case margin > t.MarginModerate:
		return 1
	case margin < t.MarginWeak:
		return -1
	default:
		return 0
	}
}

// SentimentScore scores the overall sentiment label
func SentimentScore(sentiment string) int {
	switch sentiment {
	case contracts.SentimentPositive:
		return 1
	case contracts.SentimentNegative:
		return -1
	default:
		return 0
	}
}

// Score sums the three factor scores
func (t Thresholds) Score(revenueYoY, margin float64, sentiment string) int {
	return t.GrowthScore(revenueYoY) + t.MarginScore(margin) + SentimentScore(sentiment)
}

// Recommendation maps a total score to BUY/HOLD/SELL
func (t Thresholds) Recommendation(total int) string {
	switch {
	case total >= t.BuyScore:
		return contracts.RecommendationBuy
	case total <= t.SellScore:
		return contracts.RecommendationSell
	default:
		return contracts.RecommendationHold
	}
}

// Score uses the default thresholds
func Score(revenueYoY, margin float64, sentiment string) int {
	return DefaultThresholds().Score(revenueYoY, margin, sentiment)
}

// RecommendationForScore uses the default thresholds
func RecommendationForScore(total int) string {
	return DefaultThresholds().Recommendation(total)
}

// Confidence blends sentiment confidence with a margin-derived confidence
func Confidence(sentimentConfidence, margin float64) float64 {
	marginConfidence := math.Min(0.95, 0.3+margin*1.5)
	return contracts.ClampConfidence(sentimentConfidence*0.7 + marginConfidence*0.3)
}
