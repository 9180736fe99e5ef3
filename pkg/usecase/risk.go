package usecase

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
)

type RiskUseCase struct {
	repo interfaces.Repository
	orgs *model.OrganizationRegistry
}

// RiskInput holds the editable fields of a risk register entry
type RiskInput struct {
	Name                string
	Description         string
	Category            string
	Owner               string
	InherentProbability types.Probability
	InherentImpact      types.Impact
	ResidualProbability *types.Probability
	ResidualImpact      *types.Impact
}

func (in RiskInput) toModel(id int64) *model.Risk {
	return &model.Risk{
		ID:                  id,
		Name:                in.Name,
		Description:         in.Description,
		Category:            in.Category,
		Owner:               in.Owner,
		InherentProbability: in.InherentProbability,
		InherentImpact:      in.InherentImpact,
		ResidualProbability: in.ResidualProbability,
		ResidualImpact:      in.ResidualImpact,
	}
}

func (uc *RiskUseCase) CreateRisk(ctx context.Context, orgID types.OrganizationID, input RiskInput) (*model.Risk, error) {
	if _, err := uc.orgs.Get(orgID); err != nil {
		return nil, err
	}

	risk := input.toModel(0)
	if err := risk.Validate(); err != nil {
		return nil, invalidInput(err, "invalid risk", goerr.V(OrganizationIDKey, orgID))
	}

	created, err := uc.repo.Risk().Create(ctx, orgID, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk", goerr.V(OrganizationIDKey, orgID))
	}

	logging.From(ctx).Info("risk created",
		"organization_id", orgID,
		"risk_id", created.ID,
		"inherent_level", created.InherentLevel().Level)
	return created, nil
}

func (uc *RiskUseCase) GetRisk(ctx context.Context, orgID types.OrganizationID, id int64) (*model.Risk, error) {
	if _, err := uc.orgs.Get(orgID); err != nil {
		return nil, err
	}

	risk, err := uc.repo.Risk().Get(ctx, orgID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(OrganizationIDKey, orgID), goerr.V(RiskIDKey, id))
	}
	return risk, nil
}

// ListRisks returns the risk register ordered by inherent level, highest first
func (uc *RiskUseCase) ListRisks(ctx context.Context, orgID types.OrganizationID) ([]*model.Risk, error) {
	if _, err := uc.orgs.Get(orgID); err != nil {
		return nil, err
	}

	risks, err := uc.repo.Risk().List(ctx, orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks", goerr.V(OrganizationIDKey, orgID))
	}

	sort.SliceStable(risks, func(i, j int) bool {
		li, lj := risks[i].InherentLevel().Level, risks[j].InherentLevel().Level
		if li != lj {
			return li > lj
		}
		return risks[i].ID < risks[j].ID
	})
	return risks, nil
}

func (uc *RiskUseCase) UpdateRisk(ctx context.Context, orgID types.OrganizationID, id int64, input RiskInput) (*model.Risk, error) {
	if _, err := uc.orgs.Get(orgID); err != nil {
		return nil, err
	}

	risk := input.toModel(id)
	if err := risk.Validate(); err != nil {
		return nil, invalidInput(err, "invalid risk", goerr.V(OrganizationIDKey, orgID), goerr.V(RiskIDKey, id))
	}

	updated, err := uc.repo.Risk().Update(ctx, orgID, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V(OrganizationIDKey, orgID), goerr.V(RiskIDKey, id))
	}
	return updated, nil
}

func (uc *RiskUseCase) DeleteRisk(ctx context.Context, orgID types.OrganizationID, id int64) error {
	if _, err := uc.orgs.Get(orgID); err != nil {
		return err
	}

	if err := uc.repo.Risk().Delete(ctx, orgID, id); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V(OrganizationIDKey, orgID), goerr.V(RiskIDKey, id))
	}

	logging.From(ctx).Info("risk deleted", "organization_id", orgID, "risk_id", id)
	return nil
}
