package scoring

import "github.com/secmon-lab/aegis/pkg/domain/types"

// ControlScore is the full scoring result for one control assessment
type ControlScore struct {
	Gap            int            `json:"gap"`
	Score          int            `json:"score"`
	Classification Classification `json:"classification"`
}

// ScoreControl scores one control. Not applicable controls carry no risk.
func ScoreControl(current, target types.MaturityLevel, weight types.Weight, status types.AssessmentStatus) ControlScore {
	if !status.Applicable() {
		return ControlScore{Classification: ClassifyRiskScore(0)}
	}

	score := CalculateRiskScore(current, target, weight)
	return ControlScore{
		Gap:            MaturityGap(current, target),
		Score:          score,
		Classification: ClassifyRiskScore(score),
	}
}

// RiskLevelResult is a risk level together with its band
type RiskLevelResult struct {
	Level int            `json:"level"`
	Band  types.RiskBand `json:"band"`
	Label string         `json:"label"`
	Color string         `json:"color"`
}

// EvaluateRiskLevel computes the level for a probability/impact pair and resolves its band
func EvaluateRiskLevel(probability types.Probability, impact types.Impact) RiskLevelResult {
	level := CalculateRiskLevel(probability, impact)
	band := RiskLevelBand(level)
	return RiskLevelResult{
		Level: level,
		Band:  band.Band,
		Label: band.Label,
		Color: band.Color,
	}
}
