package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/secmon-lab/aegis/pkg/utils/async"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
)

type AssessmentUseCase struct {
	repo     interfaces.Repository
	orgs     *model.OrganizationRegistry
	catalog  *model.Catalog
	notifier interfaces.AttentionNotifier
}

// AssessmentInput is the user supplied part of an assessment
type AssessmentInput struct {
	MaturityLevel  types.MaturityLevel
	TargetMaturity types.MaturityLevel
	Status         types.AssessmentStatus
	Notes          string
	Assessor       string
}

// PutAssessment creates or replaces the assessment of a control and returns it scored.
// A control that newly needs attention is reported to the notifier in the background.
func (uc *AssessmentUseCase) PutAssessment(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID, input AssessmentInput) (*model.ScoredControl, error) {
	org, err := uc.orgs.Get(orgID)
	if err != nil {
		return nil, err
	}
	ctrl, err := uc.catalog.OrganizationControl(org, controlID)
	if err != nil {
		return nil, err
	}

	assessment := &model.Assessment{
		ControlID:      controlID,
		MaturityLevel:  input.MaturityLevel,
		TargetMaturity: input.TargetMaturity,
		Status:         input.Status,
		Notes:          input.Notes,
		Assessor:       input.Assessor,
	}
	if err := assessment.Validate(); err != nil {
		return nil, invalidInput(err, "invalid assessment",
			goerr.V(OrganizationIDKey, orgID), goerr.V(ControlIDKey, controlID))
	}

	var previous *model.ScoredControl
	prev, err := uc.repo.Assessment().Get(ctx, orgID, controlID)
	switch {
	case err == nil:
		previous = model.NewScoredControl(ctrl, prev)
	case !errors.Is(err, interfaces.ErrNotFound):
		return nil, goerr.Wrap(err, "failed to get current assessment",
			goerr.V(OrganizationIDKey, orgID), goerr.V(ControlIDKey, controlID))
	}

	saved, err := uc.repo.Assessment().Put(ctx, orgID, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save assessment",
			goerr.V(OrganizationIDKey, orgID), goerr.V(ControlIDKey, controlID))
	}

	scored := model.NewScoredControl(ctrl, saved)
	logging.From(ctx).Info("assessment saved",
		"organization_id", orgID,
		"control_id", controlID,
		"score", scored.Score.Score,
		"class", scored.Score.Classification.Level)

	if uc.notifier != nil && org.SlackChannel != "" && needsAttention(scored) && (previous == nil || !needsAttention(previous)) {
		notifier := uc.notifier
		async.Dispatch(ctx, func(ctx context.Context) error {
			return notifier.NotifyAttention(ctx, org, []*model.ScoredControl{scored})
		})
	}

	return scored, nil
}

// GetAssessment returns the scored control. An unassessed control is returned with a nil assessment.
func (uc *AssessmentUseCase) GetAssessment(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) (*model.ScoredControl, error) {
	org, err := uc.orgs.Get(orgID)
	if err != nil {
		return nil, err
	}
	ctrl, err := uc.catalog.OrganizationControl(org, controlID)
	if err != nil {
		return nil, err
	}

	assessment, err := uc.repo.Assessment().Get(ctx, orgID, controlID)
	if errors.Is(err, interfaces.ErrNotFound) {
		return model.NewScoredControl(ctrl, nil), nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment",
			goerr.V(OrganizationIDKey, orgID), goerr.V(ControlIDKey, controlID))
	}

	return model.NewScoredControl(ctrl, assessment), nil
}

// ListAssessments returns the stored assessments of an organization
func (uc *AssessmentUseCase) ListAssessments(ctx context.Context, orgID types.OrganizationID) ([]*model.Assessment, error) {
	if _, err := uc.orgs.Get(orgID); err != nil {
		return nil, err
	}

	assessments, err := uc.repo.Assessment().List(ctx, orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(OrganizationIDKey, orgID))
	}
	return assessments, nil
}

// DeleteAssessment removes the assessment; the control becomes unassessed
func (uc *AssessmentUseCase) DeleteAssessment(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) error {
	org, err := uc.orgs.Get(orgID)
	if err != nil {
		return err
	}
	if _, err := uc.catalog.OrganizationControl(org, controlID); err != nil {
		return err
	}

	if err := uc.repo.Assessment().Delete(ctx, orgID, controlID); err != nil {
		return goerr.Wrap(err, "failed to delete assessment",
			goerr.V(OrganizationIDKey, orgID), goerr.V(ControlIDKey, controlID))
	}

	logging.From(ctx).Info("assessment deleted", "organization_id", orgID, "control_id", controlID)
	return nil
}
