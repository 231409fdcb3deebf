package s2_sentiment

import "strings"

// Lexicon is the keyword vocabulary used for counting
type Lexicon struct {
	Positive []string
	Negative []string

	// StrongPositiveCount: 긍정 키워드가 이 개수 이상이면 confidence 0.85 고정
	StrongPositiveCount int
}

// DefaultLexicon returns the built-in vocabulary
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive: []string{
			"exceeded", "remarkable", "unprecedented", "strong", "outstanding",
			"thrilled", "growth", "substantial", "record", "success",
			"achieved", "improvement", "optimistic", "confident", "opportunity",
		},
		Negative: []string{
			"challenge", "uncertainty", "risk", "decline", "cautious",
			"concern", "headwind", "saturation", "volatility", "weak",
			"shortfall", "miss", "pressure", "difficult",
		},
		StrongPositiveCount: 5,
	}
}

// IndicatorRule emits Phrase when every term group has at least one term present
// in the lower-cased text. 그룹 내부는 OR, 그룹 사이는 AND
type IndicatorRule struct {
	Phrase string
	Groups [][]string
}

// Matches reports whether the rule fires for lower-cased text
func (r IndicatorRule) Matches(lower string) bool {
	for _, group := range r.Groups {
		if !containsAny(lower, group) {
			return false
		}
	}
	return len(r.Groups) > 0
}

// Catalogue is the canned indicator phrase table
type Catalogue struct {
	Positive []IndicatorRule
	Negative []IndicatorRule
	Risks    []IndicatorRule
}

// DefaultCatalogue returns the built-in phrase rules
func DefaultCatalogue() Catalogue {
	return Catalogue{
		Positive: []IndicatorRule{
			{Phrase: "exceeded expectations across all key metrics", Groups: [][]string{{"exceeded", "expectations"}}},
			{Phrase: "remarkable strength in cloud services", Groups: [][]string{{"cloud"}, {"strong"}}},
			{Phrase: "unprecedented demand for AI solutions", Groups: [][]string{{"ai", "artificial intelligence"}}},
			{Phrase: "strong balance sheet and cash generation", Groups: [][]string{{"cash"}, {"generation"}}},
		},
		Negative: []IndicatorRule{
			{Phrase: "hardware division revenue decline", Groups: [][]string{{"hardware"}, {"decline", "challenge", "-2%"}}},
			{Phrase: "potential market saturation concerns", Groups: [][]string{{"saturation", "market saturation"}}},
			{Phrase: "macroeconomic uncertainties", Groups: [][]string{{"macro", "uncertainty", "economic"}}},
		},
		Risks: []IndicatorRule{
			{Phrase: "increasing cloud market competition", Groups: [][]string{{"competition", "competitive"}}},
			{Phrase: "regulatory scrutiny", Groups: [][]string{{"regulatory", "regulation"}}},
			{Phrase: "foreign exchange volatility", Groups: [][]string{{"exchange", "currency"}}},
			{Phrase: "potential economic slowdown", Groups: [][]string{{"slowdown", "recession"}}},
			{Phrase: "cybersecurity threats", Groups: [][]string{{"security", "cyber"}}},
		},
	}
}

// collect returns the phrases of matching rules, or every phrase when none match
func collect(lower string, rules []IndicatorRule) []string {
	out := []string{}
	for _, r := range rules {
		if r.Matches(lower) {
			out = append(out, r.Phrase)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, r := range rules {
		out = append(out, r.Phrase)
	}
	return out
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// present returns the keywords found in lower-cased text (substring presence, not frequency)
func present(lower string, keywords []string) []string {
	found := []string{}
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			found = append(found, k)
		}
	}
	return found
}
