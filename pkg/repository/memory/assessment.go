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

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[types.OrganizationID]map[types.ControlID]*model.Assessment
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[types.OrganizationID]map[types.ControlID]*model.Assessment),
	}
}

func (r *assessmentRepository) Put(ctx context.Context, orgID types.OrganizationID, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.assessments[orgID]
	if !ok {
		bucket = make(map[types.ControlID]*model.Assessment)
		r.assessments[orgID] = bucket
	}

	now := time.Now().UTC()
	stored := assessment.Copy()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if existing, exists := bucket[assessment.ControlID]; exists {
		stored.CreatedAt = existing.CreatedAt
	}

	bucket[stored.ControlID] = stored
	return stored.Copy(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessment, exists := r.assessments[orgID][controlID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found",
			goerr.V("organization_id", orgID), goerr.V("control_id", controlID))
	}

	// Return a copy to prevent external modification
	return assessment.Copy(), nil
}

func (r *assessmentRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.assessments[orgID]
	assessments := make([]*model.Assessment, 0, len(bucket))
	for _, a := range bucket {
		assessments = append(assessments, a.Copy())
	}

	sort.Slice(assessments, func(i, j int) bool {
		return assessments[i].ControlID < assessments[j].ControlID
	})
	return assessments, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assessments[orgID][controlID]; !exists {
		return goerr.Wrap(ErrNotFound, "assessment not found",
			goerr.V("organization_id", orgID), goerr.V("control_id", controlID))
	}

	delete(r.assessments[orgID], controlID)
	return nil
}
