package types

// RiskScoreClass is the four-tier classification of a control risk score
type RiskScoreClass string

const (
	RiskScoreLow      RiskScoreClass = "LOW"
	RiskScoreMedium   RiskScoreClass = "MEDIUM"
	RiskScoreHigh     RiskScoreClass = "HIGH"
	RiskScoreCritical RiskScoreClass = "CRITICAL"
)

// AllRiskScoreClasses returns classes ordered from least to most severe
func AllRiskScoreClasses() []RiskScoreClass {
	return []RiskScoreClass{
		RiskScoreLow,
		RiskScoreMedium,
		RiskScoreHigh,
		RiskScoreCritical,
	}
}

// Severity returns the ordinal of the class (LOW=0 ... CRITICAL=3), -1 if unknown
func (c RiskScoreClass) Severity() int {
	switch c {
	case RiskScoreLow:
		return 0
	case RiskScoreMedium:
		return 1
	case RiskScoreHigh:
		return 2
	case RiskScoreCritical:
		return 3
	default:
		return -1
	}
}

// NeedsAttention is true for HIGH and CRITICAL
func (c RiskScoreClass) NeedsAttention() bool {
	return c.Severity() >= RiskScoreHigh.Severity()
}

func (c RiskScoreClass) String() string {
	return string(c)
}
