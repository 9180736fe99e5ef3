package interfaces

import (
	"context"

	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

type RiskRepository interface {
	// Create creates a new risk with auto-generated ID
	Create(ctx context.Context, orgID types.OrganizationID, risk *model.Risk) (*model.Risk, error)

	// Get retrieves a risk by ID
	Get(ctx context.Context, orgID types.OrganizationID, id int64) (*model.Risk, error)

	// List retrieves all risks
	List(ctx context.Context, orgID types.OrganizationID) ([]*model.Risk, error)

	// Update updates an existing risk
	Update(ctx context.Context, orgID types.OrganizationID, risk *model.Risk) (*model.Risk, error)

	// Delete deletes a risk by ID
	Delete(ctx context.Context, orgID types.OrganizationID, id int64) error
}
