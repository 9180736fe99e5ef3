package interfaces

import (
	"context"

	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// AssessmentRepository stores one assessment per (organization, control)
type AssessmentRepository interface {
	// Put creates or replaces the assessment of a control. CreatedAt is preserved on replace.
	Put(ctx context.Context, orgID types.OrganizationID, assessment *model.Assessment) (*model.Assessment, error)

	// Get retrieves the assessment of a control
	Get(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) (*model.Assessment, error)

	// List retrieves all assessments of an organization
	List(ctx context.Context, orgID types.OrganizationID) ([]*model.Assessment, error)

	// Delete deletes the assessment of a control
	Delete(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) error
}
