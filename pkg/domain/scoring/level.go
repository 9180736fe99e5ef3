package scoring

import "github.com/secmon-lab/aegis/pkg/domain/types"

// Bounds of a probability x impact product
const (
	// MinRiskLevel is the level of the lowest probability and impact
	MinRiskLevel = types.MinRiskFactor * types.MinRiskFactor
	// MaxRiskLevel is the level of the highest probability and impact
	MaxRiskLevel = types.MaxRiskFactor * types.MaxRiskFactor
)

// LevelBand is one row of the risk level matrix. Min and Max are inclusive.
type LevelBand struct {
	Min   int            `json:"min"`
	Max   int            `json:"max"`
	Band  types.RiskBand `json:"band"`
	Label string         `json:"label"`
	Color string         `json:"color"`
}

// riskLevelBands is ordered from least to most severe and covers [1,25] without gaps.
var riskLevelBands = [...]LevelBand{
	{Min: 1, Max: 4, Band: types.RiskBandVeryLow, Label: "Very Low", Color: "green"},
	{Min: 5, Max: 9, Band: types.RiskBandLow, Label: "Low", Color: "lime"},
	{Min: 10, Max: 14, Band: types.RiskBandMedium, Label: "Medium", Color: "yellow"},
	{Min: 15, Max: 19, Band: types.RiskBandHigh, Label: "High", Color: "orange"},
	{Min: 20, Max: 25, Band: types.RiskBandCritical, Label: "Critical", Color: "red"},
}

// RiskLevelBands returns a copy of the level table, least severe first
func RiskLevelBands() []LevelBand {
	bands := make([]LevelBand, len(riskLevelBands))
	copy(bands, riskLevelBands[:])
	return bands
}

// CalculateRiskLevel returns probability x impact, each clamped to [1,5]
func CalculateRiskLevel(probability types.Probability, impact types.Impact) int {
	return int(probability.Clamp()) * int(impact.Clamp())
}

// RiskLevelBand returns the band containing level. Levels below 1 fall into the lowest
// band and levels above 25 into the highest.
func RiskLevelBand(level int) LevelBand {
	for i := len(riskLevelBands) - 1; i >= 0; i-- {
		if level >= riskLevelBands[i].Min {
			return riskLevelBands[i]
		}
	}
	return riskLevelBands[0]
}

// RiskLevelLabel returns the human readable band label for level
func RiskLevelLabel(level int) string {
	return RiskLevelBand(level).Label
}

// RiskLevelColor returns the color token of the band for level
func RiskLevelColor(level int) string {
	return RiskLevelBand(level).Color
}
