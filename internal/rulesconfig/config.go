package rulesconfig

import (
	"strings"

	"github.com/wonny/earnings-analyzer/backend/internal/s2_sentiment"
	"github.com/wonny/earnings-analyzer/backend/internal/s3_summary"
)

// Config는 감성 키워드와 추천 임계값 오버라이드
type Config struct {
	Meta           Meta           `yaml:"meta" json:"meta"`
	Sentiment      Sentiment      `yaml:"sentiment" json:"sentiment"`
	Recommendation Recommendation `yaml:"recommendation" json:"recommendation"`
}

// Meta 메타 정보
type Meta struct {
	RulesID string `yaml:"rules_id" json:"rules_id"`
	Version string `yaml:"version" json:"version"`
}

// Sentiment S2: 키워드 사전
type Sentiment struct {
	PositiveKeywords    []string `yaml:"positive_keywords" json:"positive_keywords"`
	NegativeKeywords    []string `yaml:"negative_keywords" json:"negative_keywords"`
	StrongPositiveCount int      `yaml:"strong_positive_count" json:"strong_positive_count"`
}

// Recommendation S3: BUY/HOLD/SELL 임계값
type Recommendation struct {
	Growth    GrowthThresholds `yaml:"growth" json:"growth"`
	Margin    MarginThresholds `yaml:"margin" json:"margin"`
	BuyScore  int              `yaml:"buy_score" json:"buy_score"`
	SellScore int              `yaml:"sell_score" json:"sell_score"`
}

type GrowthThresholds struct {
	Strong   float64 `yaml:"strong" json:"strong"`
	Moderate float64 `yaml:"moderate" json:"moderate"`
}

type MarginThresholds struct {
	Strong   float64 `yaml:"strong" json:"strong"`
	Moderate float64 `yaml:"moderate" json:"moderate"`
	Weak     float64 `yaml:"weak" json:"weak"`
}

// Default returns the built-in rules. 파일 없이 실행할 때와 동일한 값
func Default() *Config {
	lex := s2_sentiment.DefaultLexicon()
	th := s3_summary.DefaultThresholds()

	return &Config{
		Meta: Meta{RulesID: "builtin", Version: "1"},
		Sentiment: Sentiment{
			PositiveKeywords:    append([]string(nil), lex.Positive...),
			NegativeKeywords:    append([]string(nil), lex.Negative...),
			StrongPositiveCount: lex.StrongPositiveCount,
		},
		Recommendation: Recommendation{
			Growth:    GrowthThresholds{Strong: th.GrowthStrong, Moderate: th.GrowthModerate},
			Margin:    MarginThresholds{Strong: th.MarginStrong, Moderate: th.MarginModerate, Weak: th.MarginWeak},
			BuyScore:  th.BuyScore,
			SellScore: th.SellScore,
		},
	}
}

// Lexicon converts the sentiment section. 키워드는 소문자로 맞춤
func (c *Config) Lexicon() s2_sentiment.Lexicon {
	return s2_sentiment.Lexicon{
		Positive:            lowerAll(c.Sentiment.PositiveKeywords),
		Negative:            lowerAll(c.Sentiment.NegativeKeywords),
		StrongPositiveCount: c.Sentiment.StrongPositiveCount,
	}
}

// Thresholds converts the recommendation section
func (c *Config) Thresholds() s3_summary.Thresholds {
	r := c.Recommendation
	return s3_summary.Thresholds{
		GrowthStrong:   r.Growth.Strong,
		GrowthModerate: r.Growth.Moderate,
		MarginStrong:   r.Margin.Strong,
		MarginModerate: r.Margin.Moderate,
		MarginWeak:     r.Margin.Weak,
		BuyScore:       r.BuyScore,
		SellScore:      r.SellScore,
	}
}

// Heuristic builds the heuristic sentiment strategy with the default indicator catalogue
func (c *Config) Heuristic() *s2_sentiment.HeuristicStrategy {
	return s2_sentiment.NewHeuristic(c.Lexicon(), s2_sentiment.DefaultCatalogue())
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, strings.ToLower(strings.TrimSpace(w)))
	}
	return out
}
