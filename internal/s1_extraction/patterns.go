package s1_extraction

import "regexp"

// Compiled once, read-only afterwards. 첫 매치 우선, fallback 패턴은 순서대로 시도
var (
	// Revenue: 대소문자 구분 (예: "$15.2 billion")
	revenueValuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$(\d+\.?\d*)\s*[Bb]illion`),
		regexp.MustCompile(`(?i)revenue[:\s]+\$?(\d+\.?\d*)[Bb]?`),
	}
	revenueYoYPattern = regexp.MustCompile(`(?i)(?:YoY|year-over-year)[:\s]+(\d+\.?\d*)%?`)

	netIncomeValuePattern = regexp.MustCompile(`(?i)net\s+income[:\s]+\$?(\d+\.?\d*)\s*[Bb]?`)
	netIncomeYoYPattern   = regexp.MustCompile(`(?i)net\s+income.*?(\d+\.?\d*)%\s+(?:growth|increase)`)

	epsValuePattern    = regexp.MustCompile(`(?i)(?:Earnings\s+Per\s+Share|EPS)[):\s]*\$?(\d+\.?\d*)`)
	epsEstimatePattern = regexp.MustCompile(`(?i)(?:analyst\s+)?estimate[s]?[:\s]*\$?(\d+\.?\d*)`)

	marginCurrentPattern  = regexp.MustCompile(`(?i)operating\s+margin[:\s]+(\d+\.?\d*)%?`)
	marginPreviousPattern = regexp.MustCompile(`(?i)previous.*?margin[:\s]+(\d+\.?\d*)%?`)

	cashFlowValuePattern = regexp.MustCompile(`(?i)(?:free\s+)?cash\s+flow[:\s]+\$?(\d+\.?\d*)\s*[Bb]?`)
	cashFlowYoYPattern   = regexp.MustCompile(`(?i)cash\s+flow.*?(\d+\.?\d*)%\s+(?:growth|increase|change)`)

	cloudRevenuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Cloud|cloud).*?[:\-]?\s*\$?(\d+\.?\d*)\s*billion`),
		regexp.MustCompile(`(?i)(?:Cloud|cloud)\s+(?:Services\s+)?(?:Division|division)?[^$]*\$?(\d+\.?\d*)`),
	}
	cloudGrowthPattern = regexp.MustCompile(`(?is)(?:Cloud|cloud).*?(?:\(\+|plus|up\s+)?(\d+)%?\s+(?:YoY|growth|increase)`)

	softwareRevenuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Software|software).*?[:\-]?\s*\$?(\d+\.?\d*)\s*billion`),
		regexp.MustCompile(`(?i)Software\s+(?:Products|products)?[^$]*\$?(\d+\.?\d*)`),
	}
	softwareGrowthPattern = regexp.MustCompile(`(?is)(?:Software|software).*?(?:\(\+|plus|up\s+)?(\d+)%?\s+(?:YoY|growth|increase)`)

	hardwareRevenuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Hardware|hardware).*?[:\-]?\s*\$?(\d+\.?\d*)\s*billion`),
		regexp.MustCompile(`(?i)Hardware\s+(?:Division|division)?[^$]*\$?(\d+\.?\d*)`),
	}
	hardwareGrowthPattern = regexp.MustCompile(`(?is)(?:Hardware|hardware).*?(?:\(\-|\-)?(\d+)%?\s+(?:YoY|growth|decline|decrease)`)

	q4GuidancePattern = regexp.MustCompile(`(?is)Q4\s+2024[^A-Z]*?(?:Revenue|revenue)[^$\d]*\$?(\d+\.?\d*)[^$\d]*\$?(\d+\.?\d*)`)

	fullYearGrowthPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Full-year|full\s+year).*?revenue\s+growth\s+(?:of|rate)?[:\s]*(\d+)[^$]*?(\d+)%?`),
		regexp.MustCompile(`(?is)(?:Full-year|full\s+year).*?(\d+)[^$]*?(\d+)%`),
	}
)
