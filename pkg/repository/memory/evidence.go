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

type evidenceRepository struct {
	mu       sync.RWMutex
	evidence map[types.OrganizationID]map[model.EvidenceID]*model.Evidence
}

func newEvidenceRepository() *evidenceRepository {
	return &evidenceRepository{
		evidence: make(map[types.OrganizationID]map[model.EvidenceID]*model.Evidence),
	}
}

func (r *evidenceRepository) Create(ctx context.Context, orgID types.OrganizationID, evidence *model.Evidence) (*model.Evidence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.evidence[orgID]; !ok {
		r.evidence[orgID] = make(map[model.EvidenceID]*model.Evidence)
	}

	created := evidence.Copy()
	if created.ID == "" {
		created.ID = model.NewEvidenceID()
	}
	if created.UploadedAt.IsZero() {
		created.UploadedAt = time.Now().UTC()
	}

	r.evidence[orgID][created.ID] = created
	return created.Copy(), nil
}

func (r *evidenceRepository) Get(ctx context.Context, orgID types.OrganizationID, id model.EvidenceID) (*model.Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.evidence[orgID][id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return e.Copy(), nil
}

func (r *evidenceRepository) ListByControl(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) ([]*model.Evidence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Evidence, 0)
	for _, e := range r.evidence[orgID] {
		if e.ControlID == controlID {
			result = append(result, e.Copy())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})
	return result, nil
}

func (r *evidenceRepository) Delete(ctx context.Context, orgID types.OrganizationID, id model.EvidenceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.evidence[orgID][id]; !exists {
		return goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}

	delete(r.evidence[orgID], id)
	return nil
}
