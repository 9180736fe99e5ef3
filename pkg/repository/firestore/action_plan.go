package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type actionPlanDocument struct {
	ID          string    `firestore:"id"`
	ControlID   string    `firestore:"control_id"`
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	Priority    string    `firestore:"priority"`
	Status      string    `firestore:"status"`
	DueDate     time.Time `firestore:"due_date"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func newActionPlanDocument(plan *model.ActionPlan) *actionPlanDocument {
	return &actionPlanDocument{
		ID:          plan.ID.String(),
		ControlID:   plan.ControlID.String(),
		Title:       plan.Title,
		Description: plan.Description,
		Priority:    string(plan.Priority),
		Status:      string(plan.Status),
		DueDate:     plan.DueDate,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
}

func (d *actionPlanDocument) toModel() *model.ActionPlan {
	return &model.ActionPlan{
		ID:          model.ActionPlanID(d.ID),
		ControlID:   types.ControlID(d.ControlID),
		Title:       d.Title,
		Description: d.Description,
		Priority:    types.RiskScoreClass(d.Priority),
		Status:      types.ActionPlanStatus(d.Status),
		DueDate:     d.DueDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type actionPlanRepository struct {
	root *collectionRoot
}

func (r *actionPlanRepository) collection(orgID types.OrganizationID) *firestore.CollectionRef {
	return r.root.collection(orgID, "action_plans")
}

func (r *actionPlanRepository) Create(ctx context.Context, orgID types.OrganizationID, plan *model.ActionPlan) (*model.ActionPlan, error) {
	now := time.Now().UTC()
	doc := newActionPlanDocument(plan)
	if doc.ID == "" {
		doc.ID = model.NewActionPlanID().String()
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection(orgID).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create action plan",
			goerr.V("organization_id", orgID), goerr.V("control_id", plan.ControlID))
	}

	return doc.toModel(), nil
}

func (r *actionPlanRepository) Get(ctx context.Context, orgID types.OrganizationID, id model.ActionPlanID) (*model.ActionPlan, error) {
	snap, err := r.collection(orgID).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("organization_id", orgID), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action plan", goerr.V("id", id))
	}

	var doc actionPlanDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal action plan", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *actionPlanRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.ActionPlan, error) {
	return r.query(r.collection(orgID).OrderBy("created_at", firestore.Asc).Documents(ctx))
}

func (r *actionPlanRepository) ListByControl(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) ([]*model.ActionPlan, error) {
	return r.query(r.collection(orgID).
		Where("control_id", "==", controlID.String()).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx))
}

func (r *actionPlanRepository) query(iter *firestore.DocumentIterator) ([]*model.ActionPlan, error) {
	defer iter.Stop()

	plans := make([]*model.ActionPlan, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate action plans")
		}

		var doc actionPlanDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal action plan")
		}
		plans = append(plans, doc.toModel())
	}

	return plans, nil
}

func (r *actionPlanRepository) Update(ctx context.Context, orgID types.OrganizationID, plan *model.ActionPlan) (*model.ActionPlan, error) {
	docRef := r.collection(orgID).Doc(plan.ID.String())

	snap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "action plan not found", goerr.V("organization_id", orgID), goerr.V("id", plan.ID))
		}
		return nil, goerr.Wrap(err, "failed to get action plan", goerr.V("id", plan.ID))
	}

	var existing actionPlanDocument
	if err := snap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal action plan", goerr.V("id", plan.ID))
	}

	updated := newActionPlanDocument(plan)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update action plan", goerr.V("id", plan.ID))
	}
	return updated.toModel(), nil
}
