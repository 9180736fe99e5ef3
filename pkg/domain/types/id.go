package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// OrganizationID identifies a tenant. Every assessment, risk and action plan belongs to one.
type OrganizationID string

// Validate checks if the OrganizationID is valid
func (o OrganizationID) Validate() error {
	return validateID("organization", string(o))
}

func (o OrganizationID) String() string {
	return string(o)
}

// FrameworkID identifies a security framework such as NIST CSF or ISO 27001
type FrameworkID string

const (
	FrameworkNISTCSF  FrameworkID = "nist-csf"
	FrameworkISO27001 FrameworkID = "iso-27001"
	FrameworkBCBCMN   FrameworkID = "bcb-cmn"
)

// Validate checks if the FrameworkID is valid
func (f FrameworkID) Validate() error {
	return validateID("framework", string(f))
}

func (f FrameworkID) String() string {
	return string(f)
}

// ControlID identifies a control in the catalog
type ControlID string

// Validate checks if the ControlID is valid
func (c ControlID) Validate() error {
	return validateID("control", string(c))
}

func (c ControlID) String() string {
	return string(c)
}

func validateID(kind, id string) error {
	if id == "" {
		return goerr.New(kind+" ID cannot be empty", goerr.V("kind", kind))
	}
	if !idPattern.MatchString(id) {
		return goerr.New(kind+" ID must be lowercase alphanumeric with hyphens", goerr.V("id", id))
	}
	return nil
}
