package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by every repository backend when a record does not exist
var ErrNotFound = goerr.New("not found")

// Repository defines the interface for data persistence.
// All sub-repositories are scoped by organization ID.
type Repository interface {
	Assessment() AssessmentRepository
	Risk() RiskRepository
	ActionPlan() ActionPlanRepository
	Evidence() EvidenceRepository

	Close() error
}
