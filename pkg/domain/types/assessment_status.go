package types

import "github.com/m-mizutani/goerr/v2"

// AssessmentStatus is the conformance verdict of a control assessment
type AssessmentStatus string

const (
	AssessmentStatusConforme     AssessmentStatus = "conforme"
	AssessmentStatusParcial      AssessmentStatus = "parcial"
	AssessmentStatusNaoConforme  AssessmentStatus = "nao_conforme"
	AssessmentStatusNaoAplicavel AssessmentStatus = "nao_aplicavel"
	AssessmentStatusNotAssessed  AssessmentStatus = ""
)

// AllAssessmentStatuses returns all valid assessment statuses
func AllAssessmentStatuses() []AssessmentStatus {
	return []AssessmentStatus{
		AssessmentStatusConforme,
		AssessmentStatusParcial,
		AssessmentStatusNaoConforme,
		AssessmentStatusNaoAplicavel,
	}
}

// IsValid checks if the assessment status is valid. Empty status (not assessed) is not a valid input.
func (s AssessmentStatus) IsValid() bool {
	switch s {
	case AssessmentStatusConforme,
		AssessmentStatusParcial,
		AssessmentStatusNaoConforme,
		AssessmentStatusNaoAplicavel:
		return true
	default:
		return false
	}
}

// Applicable is false only for nao_aplicavel
func (s AssessmentStatus) Applicable() bool {
	return s != AssessmentStatusNaoAplicavel
}

// ComplianceRatio returns how much the status counts toward compliance, and false when it must be excluded.
func (s AssessmentStatus) ComplianceRatio() (float64, bool) {
	switch s {
	case AssessmentStatusConforme:
		return 1, true
	case AssessmentStatusParcial:
		return 0.5, true
	case AssessmentStatusNaoAplicavel:
		return 0, false
	default:
		return 0, true
	}
}

func (s AssessmentStatus) String() string {
	return string(s)
}

// ParseAssessmentStatus parses a string into an AssessmentStatus
func ParseAssessmentStatus(s string) (AssessmentStatus, error) {
	status := AssessmentStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid assessment status", goerr.V("status", s))
	}
	return status, nil
}
