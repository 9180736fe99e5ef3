package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// Framework represents a framework definition
type Framework struct {
	ID          string
	Name        string
	Description string
}

// Control represents a control definition. Weight 0 means the default weight.
type Control struct {
	ID          string
	Framework   string
	Code        string
	Name        string
	Description string
	Weight      int
}

// Organization represents a tenant definition
type Organization struct {
	ID           string
	Name         string
	Frameworks   []string
	SlackChannel string
}

// CatalogConfig holds the frameworks, controls and organizations declared in configuration
type CatalogConfig struct {
	Frameworks    []Framework
	Controls      []Control
	Organizations []Organization
}

// Build converts the definitions into the catalog and the organization registry.
// Organizations may only adopt declared frameworks.
func (c *CatalogConfig) Build() (*model.OrganizationRegistry, *model.Catalog, error) {
	frameworks := make([]*model.Framework, len(c.Frameworks))
	for i, f := range c.Frameworks {
		frameworks[i] = &model.Framework{
			ID:          types.FrameworkID(f.ID),
			Name:        f.Name,
			Description: f.Description,
		}
	}

	controls := make([]*model.Control, len(c.Controls))
	for i, ctrl := range c.Controls {
		controls[i] = &model.Control{
			ID:          types.ControlID(ctrl.ID),
			Framework:   types.FrameworkID(ctrl.Framework),
			Code:        ctrl.Code,
			Name:        ctrl.Name,
			Description: ctrl.Description,
			Weight:      types.Weight(ctrl.Weight),
		}
	}

	catalog, err := model.NewCatalog(frameworks, controls)
	if err != nil {
		return nil, nil, err
	}

	registry := model.NewOrganizationRegistry()
	for _, o := range c.Organizations {
		id := types.OrganizationID(o.ID)
		if err := id.Validate(); err != nil {
			return nil, nil, goerr.Wrap(err, "invalid organization")
		}
		if _, err := registry.Get(id); err == nil {
			return nil, nil, goerr.New("duplicate organization ID", goerr.V("organization_id", id))
		}

		org := &model.Organization{
			ID:           id,
			Name:         o.Name,
			SlackChannel: o.SlackChannel,
		}
		for _, f := range o.Frameworks {
			fid := types.FrameworkID(f)
			if _, err := catalog.Framework(fid); err != nil {
				return nil, nil, goerr.Wrap(err, "organization adopts unknown framework",
					goerr.V("organization_id", id), goerr.V("framework_id", fid))
			}
			org.Frameworks = append(org.Frameworks, fid)
		}
		registry.Register(org)
	}

	return registry, catalog, nil
}
