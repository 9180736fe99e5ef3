package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

var (
	ErrFrameworkNotFound = goerr.New("framework not found")
	ErrControlNotFound   = goerr.New("control not found")
)

// Framework is a security or regulatory framework (NIST CSF, ISO 27001, BCB/CMN ...)
type Framework struct {
	ID          types.FrameworkID
	Name        string
	Description string
}

// Control is a requirement of a framework that organizations assess
type Control struct {
	ID          types.ControlID
	Framework   types.FrameworkID
	Code        string
	Name        string
	Description string
	Weight      types.Weight
}

// Catalog is the immutable set of frameworks and controls known to the service
type Catalog struct {
	frameworks     map[types.FrameworkID]*Framework
	frameworkOrder []types.FrameworkID
	controls       map[types.ControlID]*Control
	controlOrder   []types.ControlID
}

// NewCatalog builds a catalog and checks IDs, weights and framework references
func NewCatalog(frameworks []*Framework, controls []*Control) (*Catalog, error) {
	c := &Catalog{
		frameworks: make(map[types.FrameworkID]*Framework, len(frameworks)),
		controls:   make(map[types.ControlID]*Control, len(controls)),
	}

	for _, f := range frameworks {
		if err := f.ID.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid framework")
		}
		if _, exists := c.frameworks[f.ID]; exists {
			return nil, goerr.New("duplicate framework ID", goerr.V("framework_id", f.ID))
		}
		c.frameworks[f.ID] = f
		c.frameworkOrder = append(c.frameworkOrder, f.ID)
	}

	for _, ctrl := range controls {
		if err := ctrl.ID.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid control")
		}
		if _, exists := c.controls[ctrl.ID]; exists {
			return nil, goerr.New("duplicate control ID", goerr.V("control_id", ctrl.ID))
		}
		if _, ok := c.frameworks[ctrl.Framework]; !ok {
			return nil, goerr.Wrap(ErrFrameworkNotFound, "control refers to unknown framework",
				goerr.V("control_id", ctrl.ID), goerr.V("framework_id", ctrl.Framework))
		}
		if !ctrl.Weight.IsValid() {
			return nil, goerr.New("control weight must be between 1 and 3",
				goerr.V("control_id", ctrl.ID), goerr.V("weight", ctrl.Weight))
		}
		c.controls[ctrl.ID] = ctrl
		c.controlOrder = append(c.controlOrder, ctrl.ID)
	}

	return c, nil
}

// Framework retrieves a framework by ID
func (c *Catalog) Framework(id types.FrameworkID) (*Framework, error) {
	f, ok := c.frameworks[id]
	if !ok {
		return nil, goerr.Wrap(ErrFrameworkNotFound, "framework not found", goerr.V("framework_id", id))
	}
	return f, nil
}

// Frameworks returns all frameworks in declaration order
func (c *Catalog) Frameworks() []*Framework {
	result := make([]*Framework, 0, len(c.frameworkOrder))
	for _, id := range c.frameworkOrder {
		result = append(result, c.frameworks[id])
	}
	return result
}

// Control retrieves a control by ID
func (c *Catalog) Control(id types.ControlID) (*Control, error) {
	ctrl, ok := c.controls[id]
	if !ok {
		return nil, goerr.Wrap(ErrControlNotFound, "control not found", goerr.V("control_id", id))
	}
	return ctrl, nil
}

// Controls returns the controls of the given frameworks in declaration order.
// With no framework given, every control is returned.
func (c *Catalog) Controls(frameworks ...types.FrameworkID) []*Control {
	wanted := make(map[types.FrameworkID]bool, len(frameworks))
	for _, f := range frameworks {
		wanted[f] = true
	}

	result := make([]*Control, 0, len(c.controlOrder))
	for _, id := range c.controlOrder {
		ctrl := c.controls[id]
		if len(wanted) > 0 && !wanted[ctrl.Framework] {
			continue
		}
		result = append(result, ctrl)
	}
	return result
}

// OrganizationControl resolves a control and checks that the organization adopted its framework
func (c *Catalog) OrganizationControl(org *Organization, id types.ControlID) (*Control, error) {
	ctrl, err := c.Control(id)
	if err != nil {
		return nil, err
	}
	if !org.Adopts(ctrl.Framework) {
		return nil, goerr.Wrap(ErrControlNotFound, "control is not part of the organization frameworks",
			goerr.V("organization_id", org.ID), goerr.V("control_id", id), goerr.V("framework_id", ctrl.Framework))
	}
	return ctrl, nil
}
