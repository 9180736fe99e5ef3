package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for use case layer
var (
	// ErrInvalidInput marks errors caused by request values
	ErrInvalidInput = errors.New("invalid input")

	// ErrEvidenceTooLarge is returned when an upload exceeds the configured limit
	ErrEvidenceTooLarge = errors.New("evidence exceeds maximum size")

	// ErrStorageNotConfigured is returned by evidence operations without blob storage
	ErrStorageNotConfigured = errors.New("evidence storage is not configured")
)

// Context keys for error values
const (
	OrganizationIDKey = "organization_id"
	ControlIDKey      = "control_id"
	RiskIDKey         = "risk_id"
	ActionPlanIDKey   = "action_plan_id"
	EvidenceIDKey     = "evidence_id"
)

// invalidInput marks err as caused by the request while keeping it in the chain
func invalidInput(err error, msg string, opts ...goerr.Option) error {
	return goerr.Wrap(errors.Join(ErrInvalidInput, err), msg, opts...)
}
