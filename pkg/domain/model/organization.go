package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// ErrOrganizationNotFound is returned when an organization is not in the registry
var ErrOrganizationNotFound = goerr.New("organization not found")

// Organization is a tenant. It assesses the controls of the frameworks it adopted.
type Organization struct {
	ID           types.OrganizationID
	Name         string
	Frameworks   []types.FrameworkID
	SlackChannel string
}

// Adopts reports whether the organization assesses the given framework
func (o *Organization) Adopts(framework types.FrameworkID) bool {
	for _, f := range o.Frameworks {
		if f == framework {
			return true
		}
	}
	return false
}

// OrganizationRegistry holds organization settings in declaration order.
// It does not hold repository or use case instances.
type OrganizationRegistry struct {
	entries map[types.OrganizationID]*Organization
	order   []types.OrganizationID
}

// NewOrganizationRegistry creates a new empty OrganizationRegistry
func NewOrganizationRegistry() *OrganizationRegistry {
	return &OrganizationRegistry{
		entries: make(map[types.OrganizationID]*Organization),
	}
}

// Register adds an organization. Registering the same ID again replaces the entry but keeps its position.
func (r *OrganizationRegistry) Register(org *Organization) {
	if _, exists := r.entries[org.ID]; !exists {
		r.order = append(r.order, org.ID)
	}
	r.entries[org.ID] = org
}

// Get retrieves an organization by ID
func (r *OrganizationRegistry) Get(id types.OrganizationID) (*Organization, error) {
	org, ok := r.entries[id]
	if !ok {
		return nil, goerr.Wrap(ErrOrganizationNotFound, "organization not found",
			goerr.V("organization_id", id))
	}
	return org, nil
}

// List returns all organizations in registration order
func (r *OrganizationRegistry) List() []*Organization {
	result := make([]*Organization, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.entries[id])
	}
	return result
}
