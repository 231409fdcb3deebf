package contracts

import "sort"

// Trend tags
const (
	TrendPositive  = "positive"
	TrendNegative  = "negative"
	TrendImproving = "improving"
	TrendDeclining = "declining"
)

// UnitBillionUSD is the only monetary unit the extractor emits
const UnitBillionUSD = "billion USD"

// MoneyMetric is a monetary figure with its year-over-year change
type MoneyMetric struct {
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	YoYChange float64 `json:"yoy_change"`
	Trend     string  `json:"trend,omitempty"`
}

// EPSMetric compares reported EPS against the analyst estimate
type EPSMetric struct {
	Value           float64 `json:"value"`
	AnalystEstimate float64 `json:"analyst_estimate"`
	BeatEstimate    bool    `json:"beat_estimate"`
}

// MarginMetric is the operating margin with the prior-period comparison
type MarginMetric struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Trend    string  `json:"trend"`
}

// FinancialMetrics holds the headline figures. Missing metric = omitted key.
type FinancialMetrics struct {
	Revenue         *MoneyMetric  `json:"revenue,omitempty"`
	NetIncome       *MoneyMetric  `json:"net_income,omitempty"`
	EPS             *EPSMetric    `json:"eps,omitempty"`
	OperatingMargin *MarginMetric `json:"operating_margin,omitempty"`
	FreeCashFlow    *MoneyMetric  `json:"free_cash_flow,omitempty"`
}

// CloudMetrics are the customer figures attached to the cloud segment
type CloudMetrics struct {
	NewCustomers  int     `json:"new_customers"`
	RetentionRate float64 `json:"retention_rate"`
}

// CloudSegment is the cloud services division
type CloudSegment struct {
	Revenue         float64      `json:"revenue"`
	GrowthRate      float64      `json:"growth_rate"`
	OperatingMargin float64      `json:"operating_margin"`
	Metrics         CloudMetrics `json:"metrics"`
}

// SoftwareSegment is the software products division
type SoftwareSegment struct {
	Revenue    float64  `json:"revenue"`
	GrowthRate float64  `json:"growth_rate"`
	Highlights []string `json:"highlights"`
}

// HardwareSegment is the hardware division
type HardwareSegment struct {
	Revenue    float64 `json:"revenue"`
	GrowthRate float64 `json:"growth_rate"`
	Notes      string  `json:"notes"`
}

// SegmentPerformance holds per-division figures. Missing segment = omitted key.
type SegmentPerformance struct {
	CloudServices    *CloudSegment    `json:"cloud_services,omitempty"`
	SoftwareProducts *SoftwareSegment `json:"software_products,omitempty"`
	Hardware         *HardwareSegment `json:"hardware,omitempty"`
}

// Range is an ordered [low, high] pair
type Range [2]float64

// NewRange orders a and b so that low <= high
func NewRange(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{a, b}
}

// Low returns the lower bound
func (r Range) Low() float64 { return r[0] }

// High returns the upper bound
func (r Range) High() float64 { return r[1] }

// QuarterGuidance is the next-quarter outlook
type QuarterGuidance struct {
	RevenueRange Range `json:"revenue_range"`
	EPSRange     Range `json:"eps_range"`
}

// ForwardGuidance holds management's outlook
type ForwardGuidance struct {
	Q4             *QuarterGuidance `json:"q4_2024,omitempty"`
	FullYearGrowth *Range           `json:"full_year_growth,omitempty"`
}

// ValueSource tells whether a field came from the document or a fallback
type ValueSource string

const (
	SourceExtracted ValueSource = "extracted"
	SourceDefaulted ValueSource = "defaulted"
)

// Provenance maps dotted field paths (e.g. "revenue.yoy_change") to their source
type Provenance map[string]ValueSource

// Record stores the source of one field
func (p Provenance) Record(path string, src ValueSource) {
	p[path] = src
}

// Merge copies every entry of other into p
func (p Provenance) Merge(other Provenance) {
	for k, v := range other {
		p[k] = v
	}
}

// Defaulted returns the sorted list of fields filled by fallback values
func (p Provenance) Defaulted() []string {
	out := []string{}
	for k, v := range p {
		if v == SourceDefaulted {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// NormalizePercent converts a percentage-like number to a fraction.
// v > 1 이면 퍼센트 표기로 보고 /100, 그 외는 그대로
func NormalizePercent(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}
