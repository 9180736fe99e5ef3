package model

import (
	"sort"

	"github.com/secmon-lab/aegis/pkg/domain/scoring"
)

// ScoredControl joins a catalog control with its assessment and risk score.
// Assessment is nil when the control has not been assessed yet.
type ScoredControl struct {
	Control    *Control
	Assessment *Assessment
	Score      scoring.ControlScore
}

// NewScoredControl scores a control. A missing assessment scores as maturity 0 with target 0.
func NewScoredControl(ctrl *Control, assessment *Assessment) *ScoredControl {
	sc := &ScoredControl{Control: ctrl, Assessment: assessment}
	if assessment == nil {
		sc.Score = scoring.ScoreControl(0, 0, ctrl.Weight, "")
		return sc
	}
	sc.Score = scoring.ScoreControl(assessment.MaturityLevel, assessment.TargetMaturity, ctrl.Weight, assessment.Status)
	return sc
}

// SortScoredControls orders by score descending, then by control code
func SortScoredControls(controls []*ScoredControl) {
	sort.SliceStable(controls, func(i, j int) bool {
		if controls[i].Score.Score != controls[j].Score.Score {
			return controls[i].Score.Score > controls[j].Score.Score
		}
		return controls[i].Control.Code < controls[j].Control.Code
	})
}
