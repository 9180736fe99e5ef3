package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type riskDocument struct {
	ID                  int64     `firestore:"id"`
	Name                string    `firestore:"name"`
	Description         string    `firestore:"description"`
	Category            string    `firestore:"category"`
	Owner               string    `firestore:"owner"`
	InherentProbability int       `firestore:"inherent_probability"`
	InherentImpact      int       `firestore:"inherent_impact"`
	ResidualProbability *int      `firestore:"residual_probability"`
	ResidualImpact      *int      `firestore:"residual_impact"`
	CreatedAt           time.Time `firestore:"created_at"`
	UpdatedAt           time.Time `firestore:"updated_at"`
}

func newRiskDocument(risk *model.Risk) *riskDocument {
	doc := &riskDocument{
		ID:                  risk.ID,
		Name:                risk.Name,
		Description:         risk.Description,
		Category:            risk.Category,
		Owner:               risk.Owner,
		InherentProbability: int(risk.InherentProbability),
		InherentImpact:      int(risk.InherentImpact),
		CreatedAt:           risk.CreatedAt,
		UpdatedAt:           risk.UpdatedAt,
	}
	if risk.ResidualProbability != nil {
		p := int(*risk.ResidualProbability)
		doc.ResidualProbability = &p
	}
	if risk.ResidualImpact != nil {
		i := int(*risk.ResidualImpact)
		doc.ResidualImpact = &i
	}
	return doc
}

func (d *riskDocument) toModel() *model.Risk {
	risk := &model.Risk{
		ID:                  d.ID,
		Name:                d.Name,
		Description:         d.Description,
		Category:            d.Category,
		Owner:               d.Owner,
		InherentProbability: types.Probability(d.InherentProbability),
		InherentImpact:      types.Impact(d.InherentImpact),
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
	if d.ResidualProbability != nil {
		p := types.Probability(*d.ResidualProbability)
		risk.ResidualProbability = &p
	}
	if d.ResidualImpact != nil {
		i := types.Impact(*d.ResidualImpact)
		risk.ResidualImpact = &i
	}
	return risk
}

type riskRepository struct {
	root *collectionRoot
}

func (r *riskRepository) risksCollection(orgID types.OrganizationID) *firestore.CollectionRef {
	return r.root.collection(orgID, "risks")
}

func (r *riskRepository) counterRef(orgID types.OrganizationID) *firestore.DocumentRef {
	return r.root.collection(orgID, "counters").Doc("risk_counter")
}

func (r *riskRepository) getNextID(ctx context.Context, orgID types.OrganizationID) (int64, error) {
	counterRef := r.counterRef(orgID)

	var nextID int64
	err := r.root.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}
		current, ok := currentValue.(int64)
		if !ok {
			return goerr.New("unexpected counter value type", goerr.V("value", currentValue))
		}

		nextID = current + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID", goerr.V("organization_id", orgID))
	}

	return nextID, nil
}

func (r *riskRepository) Create(ctx context.Context, orgID types.OrganizationID, risk *model.Risk) (*model.Risk, error) {
	id, err := r.getNextID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := newRiskDocument(risk)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	docRef := r.risksCollection(orgID).Doc(fmt.Sprintf("%d", id))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk", goerr.V("organization_id", orgID))
	}

	return doc.toModel(), nil
}

func (r *riskRepository) Get(ctx context.Context, orgID types.OrganizationID, id int64) (*model.Risk, error) {
	snap, err := r.risksCollection(orgID).Doc(fmt.Sprintf("%d", id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("organization_id", orgID), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var doc riskDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *riskRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.Risk, error) {
	iter := r.risksCollection(orgID).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	risks := make([]*model.Risk, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks", goerr.V("organization_id", orgID))
		}

		var doc riskDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk")
		}
		risks = append(risks, doc.toModel())
	}

	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, orgID types.OrganizationID, risk *model.Risk) (*model.Risk, error) {
	docRef := r.risksCollection(orgID).Doc(fmt.Sprintf("%d", risk.ID))

	snap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("organization_id", orgID), goerr.V("id", risk.ID))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", risk.ID))
	}

	var existing riskDocument
	if err := snap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", risk.ID))
	}

	updated := newRiskDocument(risk)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V("id", risk.ID))
	}

	return updated.toModel(), nil
}

func (r *riskRepository) Delete(ctx context.Context, orgID types.OrganizationID, id int64) error {
	docRef := r.risksCollection(orgID).Doc(fmt.Sprintf("%d", id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "risk not found", goerr.V("organization_id", orgID), goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V("id", id))
	}
	return nil
}
