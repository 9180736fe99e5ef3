package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// ValidationIssue is one stored record that no longer matches the configured catalog
type ValidationIssue struct {
	OrganizationID types.OrganizationID
	Kind           string
	RecordID       string
	ControlID      types.ControlID
	Message        string
}

// ValidationResult holds the results of DB validation
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateDB reports assessments and action plans whose control was removed from the catalog
// or belongs to a framework the organization no longer adopts. It does NOT modify any data.
func (uc *UseCases) ValidateDB(ctx context.Context) (*ValidationResult, error) {
	result := &ValidationResult{}

	for _, org := range uc.orgs.List() {
		assessments, err := uc.repo.Assessment().List(ctx, org.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(OrganizationIDKey, org.ID))
		}
		for _, a := range assessments {
			if msg := uc.controlIssue(org, a.ControlID); msg != "" {
				result.AddIssue(ValidationIssue{
					OrganizationID: org.ID,
					Kind:           "assessment",
					RecordID:       a.ControlID.String(),
					ControlID:      a.ControlID,
					Message:        msg,
				})
			}
		}

		plans, err := uc.repo.ActionPlan().List(ctx, org.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list action plans", goerr.V(OrganizationIDKey, org.ID))
		}
		for _, p := range plans {
			if msg := uc.controlIssue(org, p.ControlID); msg != "" {
				result.AddIssue(ValidationIssue{
					OrganizationID: org.ID,
					Kind:           "action_plan",
					RecordID:       p.ID.String(),
					ControlID:      p.ControlID,
					Message:        msg,
				})
			}
		}
	}

	return result, nil
}

func (uc *UseCases) controlIssue(org *model.Organization, controlID types.ControlID) string {
	ctrl, err := uc.catalog.Control(controlID)
	if err != nil {
		return "control is not in the catalog"
	}
	if !org.Adopts(ctrl.Framework) {
		return "control framework is not adopted by the organization"
	}
	return ""
}
