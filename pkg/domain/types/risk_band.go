package types

// RiskBand is the five-tier severity band of a probability x impact risk level
type RiskBand string

const (
	RiskBandVeryLow  RiskBand = "very-low"
	RiskBandLow      RiskBand = "low"
	RiskBandMedium   RiskBand = "medium"
	RiskBandHigh     RiskBand = "high"
	RiskBandCritical RiskBand = "critical"
)

// AllRiskBands returns bands ordered from least to most severe
func AllRiskBands() []RiskBand {
	return []RiskBand{
		RiskBandVeryLow,
		RiskBandLow,
		RiskBandMedium,
		RiskBandHigh,
		RiskBandCritical,
	}
}

// Severity returns the ordinal of the band (very-low=0 ... critical=4), -1 if unknown
func (b RiskBand) Severity() int {
	for i, band := range AllRiskBands() {
		if band == b {
			return i
		}
	}
	return -1
}

func (b RiskBand) String() string {
	return string(b)
}
