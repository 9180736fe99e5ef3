package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// ControlUseCase joins the control catalog with an organization's assessments
type ControlUseCase struct {
	repo    interfaces.Repository
	orgs    *model.OrganizationRegistry
	catalog *model.Catalog
}

// ListScoredControls scores every control of the organization's frameworks, highest risk first.
// An empty framework lists all adopted frameworks.
func (uc *ControlUseCase) ListScoredControls(ctx context.Context, orgID types.OrganizationID, framework types.FrameworkID) ([]*model.ScoredControl, error) {
	org, err := uc.orgs.Get(orgID)
	if err != nil {
		return nil, err
	}

	frameworks := org.Frameworks
	if framework != "" {
		if _, err := uc.catalog.Framework(framework); err != nil {
			return nil, err
		}
		if !org.Adopts(framework) {
			return nil, goerr.Wrap(model.ErrFrameworkNotFound, "framework is not adopted by the organization",
				goerr.V(OrganizationIDKey, orgID), goerr.V("framework_id", framework))
		}
		frameworks = []types.FrameworkID{framework}
	}

	return uc.scoreControls(ctx, org, frameworks)
}

// ListAttention returns the applicable controls classified HIGH or CRITICAL, highest risk first
func (uc *ControlUseCase) ListAttention(ctx context.Context, orgID types.OrganizationID) ([]*model.ScoredControl, error) {
	scored, err := uc.ListScoredControls(ctx, orgID, "")
	if err != nil {
		return nil, err
	}
	return filterAttention(scored), nil
}

func (uc *ControlUseCase) scoreControls(ctx context.Context, org *model.Organization, frameworks []types.FrameworkID) ([]*model.ScoredControl, error) {
	controls := uc.catalog.Controls(frameworks...)
	if len(controls) == 0 {
		return []*model.ScoredControl{}, nil
	}

	assessments, err := uc.repo.Assessment().List(ctx, org.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(OrganizationIDKey, org.ID))
	}
	byControl := make(map[types.ControlID]*model.Assessment, len(assessments))
	for _, a := range assessments {
		byControl[a.ControlID] = a
	}

	scored := make([]*model.ScoredControl, 0, len(controls))
	for _, ctrl := range controls {
		scored = append(scored, model.NewScoredControl(ctrl, byControl[ctrl.ID]))
	}
	model.SortScoredControls(scored)
	return scored, nil
}

func filterAttention(scored []*model.ScoredControl) []*model.ScoredControl {
	result := make([]*model.ScoredControl, 0)
	for _, sc := range scored {
		if needsAttention(sc) {
			result = append(result, sc)
		}
	}
	return result
}

func needsAttention(sc *model.ScoredControl) bool {
	if sc.Assessment != nil && !sc.Assessment.Status.Applicable() {
		return false
	}
	return sc.Score.Classification.Level.NeedsAttention()
}
