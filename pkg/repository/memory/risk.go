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

type riskRepository struct {
	mu     sync.RWMutex
	risks  map[types.OrganizationID]map[int64]*model.Risk
	nextID map[types.OrganizationID]int64
}

func newRiskRepository() *riskRepository {
	return &riskRepository{
		risks:  make(map[types.OrganizationID]map[int64]*model.Risk),
		nextID: make(map[types.OrganizationID]int64),
	}
}

func (r *riskRepository) Create(ctx context.Context, orgID types.OrganizationID, risk *model.Risk) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.risks[orgID]; !ok {
		r.risks[orgID] = make(map[int64]*model.Risk)
	}
	r.nextID[orgID]++

	now := time.Now().UTC()
	created := risk.Copy()
	created.ID = r.nextID[orgID]
	created.CreatedAt = now
	created.UpdatedAt = now

	r.risks[orgID][created.ID] = created
	return created.Copy(), nil
}

func (r *riskRepository) Get(ctx context.Context, orgID types.OrganizationID, id int64) (*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risk, exists := r.risks[orgID][id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}

	return risk.Copy(), nil
}

func (r *riskRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.risks[orgID]
	risks := make([]*model.Risk, 0, len(bucket))
	for _, risk := range bucket {
		risks = append(risks, risk.Copy())
	}

	sort.Slice(risks, func(i, j int) bool {
		return risks[i].ID < risks[j].ID
	})
	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, orgID types.OrganizationID, risk *model.Risk) (*model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.risks[orgID][risk.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("organization_id", orgID), goerr.V("id", risk.ID))
	}

	updated := risk.Copy()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.risks[orgID][updated.ID] = updated
	return updated.Copy(), nil
}

func (r *riskRepository) Delete(ctx context.Context, orgID types.OrganizationID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.risks[orgID][id]; !exists {
		return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}

	delete(r.risks[orgID], id)
	return nil
}
