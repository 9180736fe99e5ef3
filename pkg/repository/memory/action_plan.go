package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

type actionPlanRepository struct {
	mu    sync.RWMutex
	plans map[types.OrganizationID]map[model.ActionPlanID]*model.ActionPlan
}

func newActionPlanRepository() *actionPlanRepository {
	return &actionPlanRepository{
		plans: make(map[types.OrganizationID]map[model.ActionPlanID]*model.ActionPlan),
	}
}

func (r *actionPlanRepository) Create(ctx context.Context, orgID types.OrganizationID, plan *model.ActionPlan) (*model.ActionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[orgID]; !ok {
		r.plans[orgID] = make(map[model.ActionPlanID]*model.ActionPlan)
	}

	now := time.Now().UTC()
	created := plan.Copy()
	if created.ID == "" {
		created.ID = model.NewActionPlanID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	r.plans[orgID][created.ID] = created
	return created.Copy(), nil
}

func (r *actionPlanRepository) Get(ctx context.Context, orgID types.OrganizationID, id model.ActionPlanID) (*model.ActionPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, exists := r.plans[orgID][id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return plan.Copy(), nil
}

func (r *actionPlanRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.ActionPlan, error) {
	return r.filter(orgID, func(*model.ActionPlan) bool { return true }), nil
}

func (r *actionPlanRepository) ListByControl(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) ([]*model.ActionPlan, error) {
	return r.filter(orgID, func(p *model.ActionPlan) bool { return p.ControlID == controlID }), nil
}

func (r *actionPlanRepository) filter(orgID types.OrganizationID, match func(*model.ActionPlan) bool) []*model.ActionPlan {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plans := make([]*model.ActionPlan, 0)
	for _, p := range r.plans[orgID] {
		if match(p) {
			plans = append(plans, p.Copy())
		}
	}

	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.Before(plans[j].CreatedAt)
		}
		return plans[i].ID < plans[j].ID
	})
	return plans
}

func (r *actionPlanRepository) Update(ctx context.Context, orgID types.OrganizationID, plan *model.ActionPlan) (*model.ActionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.plans[orgID][plan.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("organization_id", orgID), goerr.V("id", plan.ID))
	}

	updated := plan.Copy()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.plans[orgID][updated.ID] = updated
	return updated.Copy(), nil
}
