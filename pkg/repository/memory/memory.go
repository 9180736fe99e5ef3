package memory

import (
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	assessment *assessmentRepository
	risk       *riskRepository
	actionPlan *actionPlanRepository
	evidence   *evidenceRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		assessment: newAssessmentRepository(),
		risk:       newRiskRepository(),
		actionPlan: newActionPlanRepository(),
		evidence:   newEvidenceRepository(),
	}
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) ActionPlan() interfaces.ActionPlanRepository {
	return m.actionPlan
}

func (m *Memory) Evidence() interfaces.EvidenceRepository {
	return m.evidence
}

func (m *Memory) Close() error {
	return nil
}
