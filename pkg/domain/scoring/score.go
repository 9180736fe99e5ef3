package scoring

import "github.com/secmon-lab/aegis/pkg/domain/types"

// MaxRiskScore is the score of a control at maturity 0 targeting 5 with weight 3
const MaxRiskScore = int(types.MaxMaturityLevel-types.MinMaturityLevel) * int(types.MaxWeight)

// ScoreBand is one row of the risk score threshold table. A score belongs to the band
// with the highest Min that is <= score.
type ScoreBand struct {
	Min   int                  `json:"min"`
	Class types.RiskScoreClass `json:"level"`
	Label string               `json:"label"`
}

// riskScoreThresholds is ordered from most to least severe. The last row must start at 0
// so the bands cover the whole score range.
var riskScoreThresholds = [...]ScoreBand{
	{Min: 9, Class: types.RiskScoreCritical, Label: "Critical"},
	{Min: 6, Class: types.RiskScoreHigh, Label: "High"},
	{Min: 3, Class: types.RiskScoreMedium, Label: "Medium"},
	{Min: 0, Class: types.RiskScoreLow, Label: "Low"},
}

// RiskScoreThresholds returns a copy of the threshold table, most severe first
func RiskScoreThresholds() []ScoreBand {
	bands := make([]ScoreBand, len(riskScoreThresholds))
	copy(bands, riskScoreThresholds[:])
	return bands
}

// Classification is the result of classifying a risk score
type Classification struct {
	Level types.RiskScoreClass `json:"level"`
	Label string               `json:"label"`
}

// MaturityGap returns max(0, target - current) with both levels clamped to [0,5].
// A target below current is already met.
func MaturityGap(current, target types.MaturityLevel) int {
	gap := int(target.Clamp() - current.Clamp())
	if gap < 0 {
		return 0
	}
	return gap
}

// CalculateRiskScore scores a control by its maturity gap multiplied by its weight.
// The result is within [0, MaxRiskScore]; unset weight counts as 1.
func CalculateRiskScore(current, target types.MaturityLevel, weight types.Weight) int {
	return MaturityGap(current, target) * int(weight.Normalize())
}

// ClassifyRiskScore maps a score to its band. Scores below zero are LOW.
func ClassifyRiskScore(score int) Classification {
	for _, band := range riskScoreThresholds {
		if score >= band.Min {
			return Classification{Level: band.Class, Label: band.Label}
		}
	}

	lowest := riskScoreThresholds[len(riskScoreThresholds)-1]
	return Classification{Level: lowest.Class, Label: lowest.Label}
}
