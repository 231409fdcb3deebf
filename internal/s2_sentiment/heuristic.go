package s2_sentiment

import (
	"context"
	"math"
	"strings"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
)

// Strategy produces a sentiment assessment for report text
type Strategy interface {
	Name() string
	Analyze(ctx context.Context, text string) *contracts.SentimentAnalysis
}

// HeuristicStrategy scores text by keyword presence
// ⭐ SSOT: 키워드 기반 감성 판정 규칙은 여기서만
type HeuristicStrategy struct {
	lexicon   Lexicon
	catalogue Catalogue
}

// NewHeuristic creates a heuristic strategy
func NewHeuristic(lexicon Lexicon, catalogue Catalogue) *HeuristicStrategy {
	if lexicon.StrongPositiveCount <= 0 {
		lexicon.StrongPositiveCount = DefaultLexicon().StrongPositiveCount
	}
	return &HeuristicStrategy{
		lexicon:   lexicon,
		catalogue: catalogue,
	}
}

// NewDefaultHeuristic uses the built-in lexicon and catalogue
func NewDefaultHeuristic() *HeuristicStrategy {
	return NewHeuristic(DefaultLexicon(), DefaultCatalogue())
}

// Name implements Strategy
func (h *HeuristicStrategy) Name() string {
	return contracts.StrategyHeuristic
}

// Analyze implements Strategy
func (h *HeuristicStrategy) Analyze(_ context.Context, text string) *contracts.SentimentAnalysis {
	return h.Score(text)
}

// Score is the context-free form of Analyze
func (h *HeuristicStrategy) Score(text string) *contracts.SentimentAnalysis {
	lower := strings.ToLower(text)

	positive := present(lower, h.lexicon.Positive)
	negative := present(lower, h.lexicon.Negative)

	sentiment, confidence := h.classify(len(positive), len(negative))

	return &contracts.SentimentAnalysis{
		OverallSentiment:      sentiment,
		Confidence:            contracts.ClampConfidence(confidence),
		ManagementTone:        tone(sentiment, len(negative) > 0),
		KeyPositiveIndicators: collect(lower, h.catalogue.Positive),
		KeyNegativeIndicators: collect(lower, h.catalogue.Negative),
		RiskFactorsIdentified: collect(lower, h.catalogue.Risks),
		Strategy:              contracts.StrategyHeuristic,
	}
}

// classify maps keyword counts to (sentiment, confidence)
func (h *HeuristicStrategy) classify(p, n int) (string, float64) {
	total := p + n
	if total == 0 {
		return contracts.SentimentNeutral, 0.5
	}

	ratio := float64(p) / float64(total)
	switch {
	case ratio > 0.5:
		if p >= h.lexicon.StrongPositiveCount {
			return contracts.SentimentPositive, 0.85
		}
		return contracts.SentimentPositive, math.Min(0.95, 0.70+ratio*0.25)
	case ratio < 0.5:
		return contracts.SentimentNegative, math.Min(0.95, (1-ratio)*0.5)
	default:
		return contracts.SentimentNeutral, 0.5
	}
}

func tone(sentiment string, anyNegative bool) string {
	switch {
	case sentiment == contracts.SentimentPositive && anyNegative:
		return contracts.ToneOptimisticCautious
	case sentiment == contracts.SentimentPositive:
		return contracts.ToneOptimistic
	case sentiment == contracts.SentimentNegative:
		return contracts.ToneCautiousPessimistic
	default:
		return contracts.ToneNeutral
	}
}
