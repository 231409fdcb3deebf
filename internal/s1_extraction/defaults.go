package s1_extraction

import "github.com/wonny/earnings-analyzer/backend/internal/contracts"

// Fallback values used when the document does not state a figure.
// 추출 실패 시에만 사용되며 Provenance에 defaulted 로 기록됨
const (
	DefaultRevenueYoY      = 0.12
	DefaultNetIncomeYoY    = 0.18
	DefaultAnalystEstimate = 4.30
	DefaultPreviousMargin  = 0.262
	DefaultCashFlowYoY     = 0.22

	DefaultCloudGrowth          = 0.35
	DefaultCloudOperatingMargin = 0.42
	DefaultCloudNewCustomers    = 2000
	DefaultCloudRetentionRate   = 0.985

	DefaultSoftwareGrowth    = 0.08
	DefaultSoftwareHighlight = "enterprise security suite performance"

	DefaultHardwareGrowth = -0.02
	DefaultHardwareNotes  = "margin improvement despite revenue decline"
)

var (
	DefaultQ4RevenueRange = contracts.Range{16.0, 16.5}
	DefaultQ4EPSRange     = contracts.Range{4.70, 4.85}
	DefaultFullYearGrowth = contracts.Range{0.14, 0.15}
)
