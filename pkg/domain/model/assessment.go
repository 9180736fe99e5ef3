package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// Assessment is the self-assessed state of one control in one organization
type Assessment struct {
	ControlID      types.ControlID
	MaturityLevel  types.MaturityLevel
	TargetMaturity types.MaturityLevel
	Status         types.AssessmentStatus
	Notes          string
	Assessor       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks maturity ranges and status
func (a *Assessment) Validate() error {
	if err := a.ControlID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid control ID")
	}
	if !a.MaturityLevel.IsValid() {
		return goerr.New("maturity level must be between 0 and 5", goerr.V("maturity_level", a.MaturityLevel))
	}
	if !a.TargetMaturity.IsValid() {
		return goerr.New("target maturity must be between 0 and 5", goerr.V("target_maturity", a.TargetMaturity))
	}
	if !a.Status.IsValid() {
		return goerr.New("invalid assessment status", goerr.V("status", a.Status))
	}
	return nil
}

// Copy returns a deep copy of the assessment
func (a *Assessment) Copy() *Assessment {
	copied := *a
	return &copied
}
