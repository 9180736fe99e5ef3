package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// ActionPlanID is a UUID-based identifier for ActionPlan
type ActionPlanID string

// NewActionPlanID generates a new UUID v4 ActionPlanID
func NewActionPlanID() ActionPlanID {
	return ActionPlanID(uuid.New().String())
}

func (id ActionPlanID) String() string {
	return string(id)
}

// ActionPlan is the remediation work planned to close a control's maturity gap
type ActionPlan struct {
	ID          ActionPlanID
	ControlID   types.ControlID
	Title       string
	Description string
	Priority    types.RiskScoreClass
	Status      types.ActionPlanStatus
	DueDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks required fields
func (p *ActionPlan) Validate() error {
	if err := p.ControlID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid control ID")
	}
	if p.Title == "" {
		return goerr.New("action plan title is required")
	}
	if !p.Status.IsValid() {
		return goerr.New("invalid action plan status", goerr.V("status", p.Status))
	}
	return nil
}

// Copy returns a copy of the action plan
func (p *ActionPlan) Copy() *ActionPlan {
	copied := *p
	return &copied
}
