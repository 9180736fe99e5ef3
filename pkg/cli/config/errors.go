package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound   = goerr.New("configuration file not found")
	ErrInvalidConfig    = goerr.New("invalid configuration")
	ErrDuplicateID      = goerr.New("duplicate ID")
	ErrMissingName      = goerr.New("name is required")
	ErrUnknownFramework = goerr.New("unknown framework")
	ErrInvalidWeight    = goerr.New("control weight must be between 1 and 3")
	ErrNoOrganization   = goerr.New("at least one organization is required")
)

// Context keys for error values
const (
	ConfigPathKey     = "config_path"
	FrameworkIDKey    = "framework_id"
	ControlIDKey      = "control_id"
	OrganizationIDKey = "organization_id"
)
