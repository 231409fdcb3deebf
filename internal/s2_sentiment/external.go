package s2_sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// Prompt parameters for the external classifier
const (
	ExcerptRunes      = 2500
	PromptTemperature = 0.3
	PromptMaxTokens   = 600
	MissingConfidence = 0.75
)

// GenerateRequest is a single text-generation call
type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Classifier is the external text-classification collaborator
type Classifier interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ExternalStrategy asks a Classifier for a structured verdict and falls back
// to the heuristic on any failure
type ExternalStrategy struct {
	classifier Classifier
	fallback   *HeuristicStrategy
	logger     *logger.Logger
}

// NewExternal creates an external strategy
func NewExternal(classifier Classifier, fallback *HeuristicStrategy, log *logger.Logger) *ExternalStrategy {
	if fallback == nil {
		fallback = NewDefaultHeuristic()
	}
	return &ExternalStrategy{
		classifier: classifier,
		fallback:   fallback,
		logger:     log,
	}
}

// Name implements Strategy
func (e *ExternalStrategy) Name() string {
	return contracts.StrategyExternal
}

// Analyze implements Strategy. Collaborator errors never escape.
func (e *ExternalStrategy) Analyze(ctx context.Context, text string) *contracts.SentimentAnalysis {
	result, err := e.classify(ctx, text)
	if err != nil {
		e.logger.WithError(err).Warn("External sentiment analysis failed, falling back to keyword analysis")
		return e.fallback.Score(text)
	}
	return result
}

func (e *ExternalStrategy) classify(ctx context.Context, text string) (result *contracts.SentimentAnalysis, err error) {
	// 분류기 panic 도 휴리스틱 폴백 대상
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("classifier panicked: %v", r)
		}
	}()

	resp, err := e.classifier.Generate(ctx, GenerateRequest{
		System:      systemPrompt,
		Prompt:      BuildPrompt(text),
		Temperature: PromptTemperature,
		MaxTokens:   PromptMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("classifier call failed: %w", err)
	}

	return ParseVerdict(resp)
}

// verdict mirrors the JSON object requested from the classifier
type verdict struct {
	OverallSentiment      string        `json:"overall_sentiment"`
	Confidence            *lenientFloat `json:"confidence"`
	ManagementTone        string        `json:"management_tone"`
	KeyPositiveIndicators []string      `json:"key_positive_indicators"`
	KeyNegativeIndicators []string      `json:"key_negative_indicators"`
	RiskFactorsIdentified []string      `json:"risk_factors_identified"`
}

// lenientFloat accepts a JSON number or a numeric string ("0.85")
type lenientFloat float64

func (f *lenientFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("confidence is not a number: %s", data)
	}
	*f = lenientFloat(v)
	return nil
}

// ErrNoJSONObject is returned when a response holds no balanced {...} span
var ErrNoJSONObject = errors.New("no JSON object in classifier response")

// ParseVerdict decodes and validates a classifier response
func ParseVerdict(resp string) (*contracts.SentimentAnalysis, error) {
	span, ok := FirstJSONObject(resp)
	if !ok {
		return nil, ErrNoJSONObject
	}

	var v verdict
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return nil, fmt.Errorf("invalid verdict JSON: %w", err)
	}

	if !contracts.IsValidSentiment(v.OverallSentiment) {
		return nil, fmt.Errorf("invalid overall_sentiment %q", v.OverallSentiment)
	}
	if !contracts.IsValidTone(v.ManagementTone) {
		return nil, fmt.Errorf("invalid management_tone %q", v.ManagementTone)
	}

	confidence := MissingConfidence
	if v.Confidence != nil {
		confidence = float64(*v.Confidence)
	}

	return &contracts.SentimentAnalysis{
		OverallSentiment:      v.OverallSentiment,
		Confidence:            contracts.ClampConfidence(confidence),
		ManagementTone:        v.ManagementTone,
		KeyPositiveIndicators: nonNil(v.KeyPositiveIndicators),
		KeyNegativeIndicators: nonNil(v.KeyNegativeIndicators),
		RiskFactorsIdentified: nonNil(v.RiskFactorsIdentified),
		Strategy:              contracts.StrategyExternal,
	}, nil
}

// FirstJSONObject returns the first balanced top-level {...} span of s.
// 문자열 리터럴 안의 중괄호와 이스케이프는 무시
func FirstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
