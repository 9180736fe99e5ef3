package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	domainConfig "github.com/secmon-lab/aegis/pkg/domain/model/config"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// AppConfig holds CLI flags for the catalog configuration file
type AppConfig struct {
	path string
}

// Flags returns CLI flags for the configuration file
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML file declaring frameworks, controls and organizations",
			Value:       "aegis.toml",
			Sources:     cli.EnvVars("AEGIS_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Path returns the configuration file path
func (a *AppConfig) Path() string {
	return a.path
}

// Configure loads the configuration file and builds the organization registry and control catalog
func (a *AppConfig) Configure() (*CatalogFile, *model.OrganizationRegistry, *model.Catalog, error) {
	file, err := LoadCatalogFile(a.path)
	if err != nil {
		return nil, nil, nil, err
	}

	registry, catalog, err := file.ToDomainCatalogConfig().Build()
	if err != nil {
		return nil, nil, nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to build catalog",
			goerr.V(ConfigPathKey, a.path))
	}
	return file, registry, catalog, nil
}

// CatalogFile represents the TOML configuration file
type CatalogFile struct {
	Organizations []Organization `toml:"organization"`
	Frameworks    []Framework    `toml:"framework"`
	Controls      []Control      `toml:"control"`
}

// Framework represents a framework declaration
type Framework struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Validate checks if the Framework is valid
func (f *Framework) Validate() error {
	if err := types.FrameworkID(f.ID).Validate(); err != nil {
		return goerr.Wrap(err, "invalid framework ID")
	}
	if f.Name == "" {
		return goerr.Wrap(ErrMissingName, "framework name is required", goerr.V(FrameworkIDKey, f.ID))
	}
	return nil
}

// Control represents a control declaration
type Control struct {
	ID          string `toml:"id"`
	Framework   string `toml:"framework"`
	Code        string `toml:"code"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Weight      int    `toml:"weight"`
}

// Validate checks if the Control is valid. Weight 0 means the default weight.
func (c *Control) Validate() error {
	if err := types.ControlID(c.ID).Validate(); err != nil {
		return goerr.Wrap(err, "invalid control ID")
	}
	if c.Name == "" {
		return goerr.Wrap(ErrMissingName, "control name is required", goerr.V(ControlIDKey, c.ID))
	}
	if !types.Weight(c.Weight).IsValid() {
		return goerr.Wrap(ErrInvalidWeight, "invalid control weight",
			goerr.V(ControlIDKey, c.ID), goerr.V("weight", c.Weight))
	}
	return nil
}

// Organization represents a tenant declaration
type Organization struct {
	ID           string   `toml:"id"`
	Name         string   `toml:"name"`
	Frameworks   []string `toml:"frameworks"`
	SlackChannel string   `toml:"slack_channel"`
}

// Validate checks if the Organization is valid
func (o *Organization) Validate() error {
	if err := types.OrganizationID(o.ID).Validate(); err != nil {
		return goerr.Wrap(err, "invalid organization ID")
	}
	if o.Name == "" {
		return goerr.Wrap(ErrMissingName, "organization name is required", goerr.V(OrganizationIDKey, o.ID))
	}
	return nil
}

// Validate checks declarations and the references between them
func (c *CatalogFile) Validate() error {
	if len(c.Organizations) == 0 {
		return goerr.Wrap(ErrNoOrganization, "no organization declared")
	}

	frameworkIDs := make(map[string]bool)
	for _, f := range c.Frameworks {
		if err := f.Validate(); err != nil {
			return goerr.Wrap(err, "invalid framework")
		}
		if frameworkIDs[f.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate framework ID", goerr.V(FrameworkIDKey, f.ID))
		}
		frameworkIDs[f.ID] = true
	}

	controlIDs := make(map[string]bool)
	for _, ctrl := range c.Controls {
		if err := ctrl.Validate(); err != nil {
			return goerr.Wrap(err, "invalid control")
		}
		if controlIDs[ctrl.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate control ID", goerr.V(ControlIDKey, ctrl.ID))
		}
		if !frameworkIDs[ctrl.Framework] {
			return goerr.Wrap(ErrUnknownFramework, "control refers to undeclared framework",
				goerr.V(ControlIDKey, ctrl.ID), goerr.V(FrameworkIDKey, ctrl.Framework))
		}
		controlIDs[ctrl.ID] = true
	}

	orgIDs := make(map[string]bool)
	for _, org := range c.Organizations {
		if err := org.Validate(); err != nil {
			return goerr.Wrap(err, "invalid organization")
		}
		if orgIDs[org.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate organization ID", goerr.V(OrganizationIDKey, org.ID))
		}
		for _, f := range org.Frameworks {
			if !frameworkIDs[f] {
				return goerr.Wrap(ErrUnknownFramework, "organization adopts undeclared framework",
					goerr.V(OrganizationIDKey, org.ID), goerr.V(FrameworkIDKey, f))
			}
		}
		orgIDs[org.ID] = true
	}

	return nil
}

// LoadCatalogFile loads and validates the TOML configuration file
func LoadCatalogFile(path string) (*CatalogFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var file CatalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}

// ToDomainCatalogConfig converts the file declarations to domain definitions
func (c *CatalogFile) ToDomainCatalogConfig() *domainConfig.CatalogConfig {
	frameworks := make([]domainConfig.Framework, len(c.Frameworks))
	for i, f := range c.Frameworks {
		frameworks[i] = domainConfig.Framework{
			ID:          f.ID,
			Name:        f.Name,
			Description: f.Description,
		}
	}

	controls := make([]domainConfig.Control, len(c.Controls))
	for i, ctrl := range c.Controls {
		controls[i] = domainConfig.Control{
			ID:          ctrl.ID,
			Framework:   ctrl.Framework,
			Code:        ctrl.Code,
			Name:        ctrl.Name,
			Description: ctrl.Description,
			Weight:      ctrl.Weight,
		}
	}

	orgs := make([]domainConfig.Organization, len(c.Organizations))
	for i, o := range c.Organizations {
		orgs[i] = domainConfig.Organization{
			ID:           o.ID,
			Name:         o.Name,
			Frameworks:   o.Frameworks,
			SlackChannel: o.SlackChannel,
		}
	}

	return &domainConfig.CatalogConfig{
		Frameworks:    frameworks,
		Controls:      controls,
		Organizations: orgs,
	}
}
