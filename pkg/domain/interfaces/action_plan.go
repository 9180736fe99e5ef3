package interfaces

import (
	"context"

	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// ActionPlanRepository defines the interface for ActionPlan data access
type ActionPlanRepository interface {
	// Create stores a new action plan. The ID is generated when empty.
	Create(ctx context.Context, orgID types.OrganizationID, plan *model.ActionPlan) (*model.ActionPlan, error)

	// Get retrieves an action plan by ID
	Get(ctx context.Context, orgID types.OrganizationID, id model.ActionPlanID) (*model.ActionPlan, error)

	// List retrieves all action plans of an organization ordered by creation time
	List(ctx context.Context, orgID types.OrganizationID) ([]*model.ActionPlan, error)

	// ListByControl retrieves action plans of one control
	ListByControl(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) ([]*model.ActionPlan, error)

	// Update updates an existing action plan
	Update(ctx context.Context, orgID types.OrganizationID, plan *model.ActionPlan) (*model.ActionPlan, error)
}
