package s1_extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

func TestExtract_RevenueWithDefaultYoY(t *testing.T) {
	ex := Extract("Total revenue was $15.2 billion this quarter.")

	require.NotNil(t, ex.Financials.Revenue)
	rev := ex.Financials.Revenue
	assert.Equal(t, 15.2, rev.Value)
	assert.Equal(t, "billion USD", rev.Unit)
	assert.Equal(t, 0.12, rev.YoYChange)
	assert.Equal(t, contracts.TrendPositive, rev.Trend)

	assert.Equal(t, contracts.SourceExtracted, ex.Provenance["revenue.value"])
	assert.Equal(t, contracts.SourceDefaulted, ex.Provenance["revenue.yoy_change"])
}

func TestExtract_RevenueYoYNormalized(t *testing.T) {
	ex := Extract("Revenue: $15.2 billion, year-over-year: 14%")

	require.NotNil(t, ex.Financials.Revenue)
	assert.InDelta(t, 0.14, ex.Financials.Revenue.YoYChange, 1e-9)
	assert.Equal(t, contracts.SourceExtracted, ex.Provenance["revenue.yoy_change"])
}

func TestExtract_RevenueFallbackPattern(t *testing.T) {
	ex := Extract("revenue: 9.7B for the period")

	require.NotNil(t, ex.Financials.Revenue)
	assert.Equal(t, 9.7, ex.Financials.Revenue.Value)
}

func TestExtract_NetIncome(t *testing.T) {
	ex := Extract("Net income: $3.8 billion, reflecting 21% growth")

	require.NotNil(t, ex.Financials.NetIncome)
	ni := ex.Financials.NetIncome
	assert.Equal(t, 3.8, ni.Value)
	assert.InDelta(t, 0.21, ni.YoYChange, 1e-9)
	assert.Equal(t, contracts.TrendPositive, ni.Trend)
}

func TestExtract_NetIncomeDefaultYoY(t *testing.T) {
	ex := Extract("Net income: 3.1")

	require.NotNil(t, ex.Financials.NetIncome)
	assert.Equal(t, 0.18, ex.Financials.NetIncome.YoYChange)
	assert.Equal(t, contracts.SourceDefaulted, ex.Provenance["net_income.yoy_change"])
}

func TestExtract_EPS(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantValue    float64
		wantEstimate float64
		wantBeat     bool
		wantSource   contracts.ValueSource
	}{
		{
			name:         "explicit estimate",
			text:         "EPS: $4.52 (analyst estimate: $4.35)",
			wantValue:    4.52,
			wantEstimate: 4.35,
			wantBeat:     true,
			wantSource:   contracts.SourceExtracted,
		},
		{
			name:         "parenthesised label, default estimate",
			text:         "Earnings Per Share (EPS): $4.52",
			wantValue:    4.52,
			wantEstimate: 4.30,
			wantBeat:     true,
			wantSource:   contracts.SourceDefaulted,
		},
		{
			name:         "equal is not a beat",
			text:         "EPS: $4.30",
			wantValue:    4.30,
			wantEstimate: 4.30,
			wantBeat:     false,
			wantSource:   contracts.SourceDefaulted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := Extract(tt.text)
			require.NotNil(t, ex.Financials.EPS)
			assert.Equal(t, tt.wantValue, ex.Financials.EPS.Value)
			assert.Equal(t, tt.wantEstimate, ex.Financials.EPS.AnalystEstimate)
			assert.Equal(t, tt.wantBeat, ex.Financials.EPS.BeatEstimate)
			assert.Equal(t, tt.wantSource, ex.Provenance["eps.analyst_estimate"])
		})
	}
}

func TestExtract_OperatingMargin(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantCurrent  float64
		wantPrevious float64
		wantTrend    string
	}{
		{
			name:         "improving",
			text:         "Operating margin: 28.5%, compared to previous quarter margin: 26.2%",
			wantCurrent:  0.285,
			wantPrevious: 0.262,
			wantTrend:    contracts.TrendImproving,
		},
		{
			name:         "declining",
			text:         "Operating margin: 24%. previous margin: 26%",
			wantCurrent:  0.24,
			wantPrevious: 0.26,
			wantTrend:    contracts.TrendDeclining,
		},
		{
			name:         "no previous margin is improving",
			text:         "Operating margin: 20%",
			wantCurrent:  0.20,
			wantPrevious: 0.262,
			wantTrend:    contracts.TrendImproving,
		},
		{
			name:         "fraction kept as is",
			text:         "Operating margin: 0.31",
			wantCurrent:  0.31,
			wantPrevious: 0.262,
			wantTrend:    contracts.TrendImproving,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := Extract(tt.text)
			require.NotNil(t, ex.Financials.OperatingMargin)
			m := ex.Financials.OperatingMargin
			assert.InDelta(t, tt.wantCurrent, m.Current, 1e-9)
			assert.InDelta(t, tt.wantPrevious, m.Previous, 1e-9)
			assert.Equal(t, tt.wantTrend, m.Trend)
		})
	}
}

func TestExtract_FreeCashFlow(t *testing.T) {
	ex := Extract("Free cash flow: $4.2 billion (30% increase)")

	require.NotNil(t, ex.Financials.FreeCashFlow)
	fcf := ex.Financials.FreeCashFlow
	assert.Equal(t, 4.2, fcf.Value)
	assert.Equal(t, "billion USD", fcf.Unit)
	assert.InDelta(t, 0.30, fcf.YoYChange, 1e-9)
	assert.Empty(t, fcf.Trend)
}

func TestExtract_Segments(t *testing.T) {
	t.Run("cloud", func(t *testing.T) {
		ex := Extract("Cloud Services revenue reached $6.1 billion (+40% YoY)")
		require.NotNil(t, ex.Segments.CloudServices)
		cloud := ex.Segments.CloudServices
		assert.Equal(t, 6.1, cloud.Revenue)
		assert.InDelta(t, 0.40, cloud.GrowthRate, 1e-9)
		assert.Equal(t, 0.42, cloud.OperatingMargin)
		assert.Equal(t, 2000, cloud.Metrics.NewCustomers)
		assert.Equal(t, 0.985, cloud.Metrics.RetentionRate)
	})

	t.Run("software", func(t *testing.T) {
		ex := Extract("Software Products revenue grew to $4.5 billion, 9% growth")
		require.NotNil(t, ex.Segments.SoftwareProducts)
		sw := ex.Segments.SoftwareProducts
		assert.Equal(t, 4.5, sw.Revenue)
		assert.InDelta(t, 0.09, sw.GrowthRate, 1e-9)
		assert.Equal(t, []string{"enterprise security suite performance"}, sw.Highlights)
	})

	t.Run("hardware decline is negative", func(t *testing.T) {
		ex := Extract("Hardware revenue was $2.1 billion, a 3% decline")
		require.NotNil(t, ex.Segments.Hardware)
		hw := ex.Segments.Hardware
		assert.Equal(t, 2.1, hw.Revenue)
		assert.InDelta(t, -0.03, hw.GrowthRate, 1e-9)
		assert.Equal(t, "margin improvement despite revenue decline", hw.Notes)
	})

	t.Run("hardware default growth", func(t *testing.T) {
		ex := Extract("Hardware Division $2.6")
		require.NotNil(t, ex.Segments.Hardware)
		assert.Equal(t, 2.6, ex.Segments.Hardware.Revenue)
		assert.Equal(t, -0.02, ex.Segments.Hardware.GrowthRate)
		assert.Equal(t, contracts.SourceDefaulted, ex.Provenance["hardware.growth_rate"])
	})
}

func TestExtract_Guidance(t *testing.T) {
	t.Run("q4 range reordered", func(t *testing.T) {
		ex := Extract("Q4 2024: revenue of $16.5 to $16.1 billion")
		require.NotNil(t, ex.Guidance.Q4)
		assert.Equal(t, contracts.Range{16.1, 16.5}, ex.Guidance.Q4.RevenueRange)
		assert.Equal(t, contracts.Range{4.70, 4.85}, ex.Guidance.Q4.EPSRange)
		assert.Equal(t, contracts.SourceExtracted, ex.Provenance["q4_2024.revenue_range"])
	})

	t.Run("full year primary", func(t *testing.T) {
		ex := Extract("Full-year revenue growth of 12-13%")
		require.NotNil(t, ex.Guidance.FullYearGrowth)
		assert.InDelta(t, 0.12, ex.Guidance.FullYearGrowth.Low(), 1e-9)
		assert.InDelta(t, 0.13, ex.Guidance.FullYearGrowth.High(), 1e-9)
	})

	t.Run("full year fallback", func(t *testing.T) {
		ex := Extract("full year outlook raised to 10 to 11%")
		require.NotNil(t, ex.Guidance.FullYearGrowth)
		assert.InDelta(t, 0.10, ex.Guidance.FullYearGrowth.Low(), 1e-9)
		assert.InDelta(t, 0.11, ex.Guidance.FullYearGrowth.High(), 1e-9)
	})
}

func TestExtract_NoFigures(t *testing.T) {
	ex := Extract("Quarterly update with no figures.")

	assert.Nil(t, ex.Financials.Revenue)
	assert.Nil(t, ex.Financials.NetIncome)
	assert.Nil(t, ex.Financials.EPS)
	assert.Nil(t, ex.Financials.OperatingMargin)
	assert.Nil(t, ex.Financials.FreeCashFlow)
	assert.Nil(t, ex.Segments.CloudServices)
	assert.Nil(t, ex.Segments.SoftwareProducts)
	assert.Nil(t, ex.Segments.Hardware)

	require.NotNil(t, ex.Guidance.Q4)
	assert.Equal(t, DefaultQ4RevenueRange, ex.Guidance.Q4.RevenueRange)
	assert.Equal(t, DefaultFullYearGrowth, *ex.Guidance.FullYearGrowth)
	assert.Equal(t, []string{"full_year_growth", "q4_2024.eps_range", "q4_2024.revenue_range"}, ex.Provenance.Defaulted())
}

func TestExtract_Idempotent(t *testing.T) {
	report := `TechCorp reported revenue of $15.2 billion, YoY: 12%.
Net income: $3.8 billion, reflecting 21% growth.
Earnings Per Share (EPS): $4.52. Operating margin: 28.5%.
Cloud Services: $6.1 billion (+40% YoY). Hardware: $2.1 billion, 3% decline.
Q4 2024: revenue of $16.0 to $16.5 billion. Full-year revenue growth of 14-15%.`

	first := Extract(report)
	second := Extract(report)
	assert.Equal(t, first, second)
}

func TestExtractorStage(t *testing.T) {
	e := New(logger.Nop())
	assert.Equal(t, contracts.StageExtractor, e.Name())

	t.Run("no report", func(t *testing.T) {
		actx := contracts.NewAnalysisContext("run")
		result, err := e.Execute(context.Background(), contracts.Input{"report_content": ""}, actx)
		require.NoError(t, err)
		assert.Equal(t, []string{"no report content available for extraction"}, result.Errors)
		assert.Nil(t, actx.Financials)
	})

	t.Run("writes context", func(t *testing.T) {
		actx := contracts.NewAnalysisContext("run")
		actx.ReportContent = "Total revenue was $15.2 billion this quarter."

		result, err := e.Execute(context.Background(), contracts.Input{"report_content": actx.ReportContent}, actx)
		require.NoError(t, err)
		assert.True(t, result.Succeeded())

		require.NotNil(t, actx.Financials)
		assert.Equal(t, 15.2, actx.Financials.Revenue.Value)
		assert.NotNil(t, actx.Segments)
		assert.NotNil(t, actx.Guidance)
		assert.Equal(t, contracts.SourceDefaulted, actx.Provenance["revenue.yoy_change"])
		assert.Same(t, actx.Financials, result.Data["financial_metrics"])
	})
}
