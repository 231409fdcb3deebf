package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Printf("   • %s\n", item)
	}
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintReportSummary prints the human-readable view of a report
func PrintReportSummary(report *contracts.AnalysisReport) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Earnings Analysis %s\n", report.AnalysisID)
	PrintSeparator()
	PrintKeyValue("Source", orDash(report.Metadata.ReportSource), 14)
	PrintKeyValue("Duration", fmt.Sprintf("%.3fs", report.ProcessingTimeSeconds), 14)
	PrintKeyValue("Stages", fmt.Sprintf("%d/%d succeeded", report.Metadata.StagesSucceeded, len(report.AgentsExecuted)), 14)

	if m := report.FinancialMetrics; m != nil {
		PrintSeparator()
		if m.Revenue != nil {
			PrintKeyValue("Revenue", fmt.Sprintf("%.2f %s (YoY %s)", m.Revenue.Value, m.Revenue.Unit, formatPercent(m.Revenue.YoYChange)), 14)
		}
		if m.NetIncome != nil {
			PrintKeyValue("Net Income", fmt.Sprintf("%.2f %s", m.NetIncome.Value, m.NetIncome.Unit), 14)
		}
		if m.EPS != nil {
			PrintKeyValue("EPS", fmt.Sprintf("%.2f (est. %.2f)", m.EPS.Value, m.EPS.AnalystEstimate), 14)
		}
		if m.OperatingMargin != nil {
			PrintKeyValue("Op. Margin", formatPercent(m.OperatingMargin.Current), 14)
		}
	}

	if s := report.SentimentAnalysis; s != nil {
		PrintSeparator()
		PrintKeyValue("Sentiment", fmt.Sprintf("%s (%.2f)", s.OverallSentiment, s.Confidence), 14)
		PrintKeyValue("Tone", s.ManagementTone, 14)
		if len(s.KeyPositiveIndicators) > 0 {
			PrintKeyValue("Positive", strings.Join(s.KeyPositiveIndicators, ", "), 14)
		}
		if len(s.KeyNegativeIndicators) > 0 {
			PrintKeyValue("Negative", strings.Join(s.KeyNegativeIndicators, ", "), 14)
		}
	}

	if e := report.ExecutiveSummary; e != nil {
		PrintSeparator()
		fmt.Printf("  %s\n", e.Headline)
		PrintKeyValue("Recommendation", fmt.Sprintf("%s (%.2f)", e.Recommendation, e.ConfidenceScore), 14)
	}

	PrintDoubleSeparator()
	if len(report.Errors) == 0 {
		PrintSuccess("All stages succeeded")
		return
	}
	PrintWarning(fmt.Sprintf("%d stage error(s)", len(report.Errors)))
	PrintList(report.Errors)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
