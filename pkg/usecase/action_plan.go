package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Days until an action plan is due, by priority
const (
	CriticalDueDays = 30
	HighDueDays     = 60
)

type ActionPlanUseCase struct {
	repo        interfaces.Repository
	orgs        *model.OrganizationRegistry
	catalog     *model.Catalog
	control     *ControlUseCase
	concurrency int
	now         func() time.Time

	// generating holds one *sync.Mutex per organization
	generating sync.Map
}

// lockOrganization serializes plan generation of one organization within this process
func (uc *ActionPlanUseCase) lockOrganization(orgID types.OrganizationID) func() {
	v, _ := uc.generating.LoadOrStore(orgID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// DueDate returns the due date of a plan created at now with the given priority
func DueDate(now time.Time, priority types.RiskScoreClass) time.Time {
	days := HighDueDays
	if priority == types.RiskScoreCritical {
		days = CriticalDueDays
	}
	return now.UTC().AddDate(0, 0, days)
}

// GenerateActionPlans creates a plan for every control needing attention that has no open plan.
// Plans are written concurrently and returned in attention order.
//
// Concurrent calls for the same organization run one after another within a process.
// Multiple server instances sharing one repository are not coordinated.
func (uc *ActionPlanUseCase) GenerateActionPlans(ctx context.Context, orgID types.OrganizationID) ([]*model.ActionPlan, error) {
	unlock := uc.lockOrganization(orgID)
	defer unlock()

	attention, err := uc.control.ListAttention(ctx, orgID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.ActionPlan().List(ctx, orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action plans", goerr.V(OrganizationIDKey, orgID))
	}
	covered := make(map[types.ControlID]bool, len(existing))
	for _, p := range existing {
		if p.Status.IsOpen() {
			covered[p.ControlID] = true
		}
	}

	now := uc.now()
	pending := make([]*model.ActionPlan, 0, len(attention))
	for _, sc := range attention {
		if covered[sc.Control.ID] {
			continue
		}
		pending = append(pending, newActionPlan(sc, now))
	}

	created := make([]*model.ActionPlan, len(pending))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(uc.concurrency)
	for i, plan := range pending {
		eg.Go(func() error {
			saved, err := uc.repo.ActionPlan().Create(egCtx, orgID, plan)
			if err != nil {
				return goerr.Wrap(err, "failed to create action plan",
					goerr.V(OrganizationIDKey, orgID), goerr.V(ControlIDKey, plan.ControlID))
			}
			created[i] = saved
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("action plans generated",
		"organization_id", orgID,
		"attention", len(attention),
		"created", len(created))
	return created, nil
}

func newActionPlan(sc *model.ScoredControl, now time.Time) *model.ActionPlan {
	var current, target types.MaturityLevel
	if sc.Assessment != nil {
		current = sc.Assessment.MaturityLevel
		target = sc.Assessment.TargetMaturity
	}

	priority := sc.Score.Classification.Level
	return &model.ActionPlan{
		ControlID: sc.Control.ID,
		Title:     fmt.Sprintf("Raise %s maturity from %d to %d", sc.Control.Code, current, target),
		Description: fmt.Sprintf("%s: risk score %d (%s). Close the maturity gap of %d level(s).",
			sc.Control.Name, sc.Score.Score, sc.Score.Classification.Label, sc.Score.Gap),
		Priority: priority,
		Status:   types.ActionPlanStatusTodo,
		DueDate:  DueDate(now, priority),
	}
}

// ListActionPlans lists plans of the organization, or of one control when controlID is set
func (uc *ActionPlanUseCase) ListActionPlans(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) ([]*model.ActionPlan, error) {
	org, err := uc.orgs.Get(orgID)
	if err != nil {
		return nil, err
	}

	if controlID == "" {
		plans, err := uc.repo.ActionPlan().List(ctx, orgID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list action plans", goerr.V(OrganizationIDKey, orgID))
		}
		return plans, nil
	}

	if _, err := uc.catalog.OrganizationControl(org, controlID); err != nil {
		return nil, err
	}
	plans, err := uc.repo.ActionPlan().ListByControl(ctx, orgID, controlID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action plans",
			goerr.V(OrganizationIDKey, orgID), goerr.V(ControlIDKey, controlID))
	}
	return plans, nil
}

func (uc *ActionPlanUseCase) GetActionPlan(ctx context.Context, orgID types.OrganizationID, id model.ActionPlanID) (*model.ActionPlan, error) {
	if _, err := uc.orgs.Get(orgID); err != nil {
		return nil, err
	}

	plan, err := uc.repo.ActionPlan().Get(ctx, orgID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get action plan", goerr.V(OrganizationIDKey, orgID), goerr.V(ActionPlanIDKey, id))
	}
	return plan, nil
}

func (uc *ActionPlanUseCase) UpdateActionPlanStatus(ctx context.Context, orgID types.OrganizationID, id model.ActionPlanID, status types.ActionPlanStatus) (*model.ActionPlan, error) {
	if !status.IsValid() {
		return nil, invalidInput(goerr.New("unknown status", goerr.V("status", status)), "invalid action plan status",
			goerr.V(ActionPlanIDKey, id))
	}

	plan, err := uc.GetActionPlan(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if plan.Status == status {
		return plan, nil
	}

	previous := plan.Status
	plan.Status = status
	updated, err := uc.repo.ActionPlan().Update(ctx, orgID, plan)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action plan", goerr.V(OrganizationIDKey, orgID), goerr.V(ActionPlanIDKey, id))
	}

	logging.From(ctx).Info("action plan status changed",
		"organization_id", orgID,
		"action_plan_id", id,
		"from", previous,
		"to", status)
	return updated, nil
}
