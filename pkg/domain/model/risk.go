package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/scoring"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// Risk is an entry of an organization's risk register
type Risk struct {
	ID                  int64
	Name                string
	Description         string
	Category            string
	Owner               string
	InherentProbability types.Probability
	InherentImpact      types.Impact
	ResidualProbability *types.Probability
	ResidualImpact      *types.Impact
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasResidual is true when both residual factors are set
func (r *Risk) HasResidual() bool {
	return r.ResidualProbability != nil && r.ResidualImpact != nil
}

// InherentLevel evaluates probability x impact before treatment
func (r *Risk) InherentLevel() scoring.RiskLevelResult {
	return scoring.EvaluateRiskLevel(r.InherentProbability, r.InherentImpact)
}

// ResidualLevel evaluates probability x impact after treatment; nil without residual values
func (r *Risk) ResidualLevel() *scoring.RiskLevelResult {
	if !r.HasResidual() {
		return nil
	}
	level := scoring.EvaluateRiskLevel(*r.ResidualProbability, *r.ResidualImpact)
	return &level
}

// EffectiveLevel is the residual level when treated, the inherent level otherwise
func (r *Risk) EffectiveLevel() scoring.RiskLevelResult {
	if residual := r.ResidualLevel(); residual != nil {
		return *residual
	}
	return r.InherentLevel()
}

// Validate checks required fields and factor ranges
func (r *Risk) Validate() error {
	if r.Name == "" {
		return goerr.New("risk name is required")
	}
	if !r.InherentProbability.IsValid() {
		return goerr.New("inherent probability must be between 1 and 5", goerr.V("probability", r.InherentProbability))
	}
	if !r.InherentImpact.IsValid() {
		return goerr.New("inherent impact must be between 1 and 5", goerr.V("impact", r.InherentImpact))
	}

	if (r.ResidualProbability == nil) != (r.ResidualImpact == nil) {
		return goerr.New("residual probability and impact must be set together")
	}
	if r.HasResidual() {
		if !r.ResidualProbability.IsValid() {
			return goerr.New("residual probability must be between 1 and 5", goerr.V("probability", *r.ResidualProbability))
		}
		if !r.ResidualImpact.IsValid() {
			return goerr.New("residual impact must be between 1 and 5", goerr.V("impact", *r.ResidualImpact))
		}
		if r.ResidualLevel().Level > r.InherentLevel().Level {
			return goerr.New("residual risk level cannot exceed inherent risk level",
				goerr.V("inherent", r.InherentLevel().Level), goerr.V("residual", r.ResidualLevel().Level))
		}
	}
	return nil
}

// Copy returns a deep copy of the risk
func (r *Risk) Copy() *Risk {
	copied := *r
	if r.ResidualProbability != nil {
		p := *r.ResidualProbability
		copied.ResidualProbability = &p
	}
	if r.ResidualImpact != nil {
		i := *r.ResidualImpact
		copied.ResidualImpact = &i
	}
	return &copied
}
