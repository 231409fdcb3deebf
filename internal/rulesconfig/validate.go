package rulesconfig

import (
	"fmt"
	"strings"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Sentiment ===
	if err := validateKeywords(cfg.Sentiment.PositiveKeywords, "sentiment.positive_keywords"); err != nil {
		return err
	}
	if err := validateKeywords(cfg.Sentiment.NegativeKeywords, "sentiment.negative_keywords"); err != nil {
		return err
	}
	if cfg.Sentiment.StrongPositiveCount < 1 {
		return ValidationError{"sentiment.strong_positive_count", "must be >= 1"}
	}

	// === Recommendation ===
	g := cfg.Recommendation.Growth
	if g.Moderate < 0 || g.Moderate >= g.Strong {
		return ValidationError{"recommendation.growth", "must satisfy 0 <= moderate < strong"}
	}

	m := cfg.Recommendation.Margin
	if m.Weak < 0 || m.Weak >= m.Moderate || m.Moderate >= m.Strong {
		return ValidationError{"recommendation.margin", "must satisfy 0 <= weak < moderate < strong"}
	}
	if m.Strong > 1 {
		return ValidationError{"recommendation.margin.strong", "must be a fraction in [0, 1]"}
	}

	if cfg.Recommendation.SellScore >= cfg.Recommendation.BuyScore {
		return ValidationError{"recommendation", "sell_score must be < buy_score"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	negative := make(map[string]bool, len(cfg.Sentiment.NegativeKeywords))
	for _, w := range cfg.Sentiment.NegativeKeywords {
		negative[strings.ToLower(w)] = true
	}
	for _, w := range cfg.Sentiment.PositiveKeywords {
		if negative[strings.ToLower(w)] {
			warnings = append(warnings, Warning{
				Code:    "KEYWORD_OVERLAP",
				Message: fmt.Sprintf("%q is both positive and negative", w),
			})
		}
	}

	// 긍정 키워드 수보다 큰 기준은 도달 불가
	if cfg.Sentiment.StrongPositiveCount > len(cfg.Sentiment.PositiveKeywords) {
		warnings = append(warnings, Warning{
			Code:    "UNREACHABLE_STRONG_COUNT",
			Message: "strong_positive_count exceeds the number of positive keywords",
		})
	}

	if cfg.Recommendation.BuyScore > 4 {
		warnings = append(warnings, Warning{
			Code:    "UNREACHABLE_BUY",
			Message: "buy_score > 4: maximum total score is 4",
		})
	}

	return warnings
}

func validateKeywords(words []string, field string) error {
	if len(words) == 0 {
		return ValidationError{field, "must not be empty"}
	}
	for i, w := range words {
		if strings.TrimSpace(w) == "" {
			return ValidationError{fmt.Sprintf("%s[%d]", field, i), "must not be blank"}
		}
	}
	return nil
}
