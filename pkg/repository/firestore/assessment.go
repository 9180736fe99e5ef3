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

type assessmentDocument struct {
	ControlID      string    `firestore:"control_id"`
	MaturityLevel  int       `firestore:"maturity_level"`
	TargetMaturity int       `firestore:"target_maturity"`
	Status         string    `firestore:"status"`
	Notes          string    `firestore:"notes"`
	Assessor       string    `firestore:"assessor"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func (d *assessmentDocument) toModel() *model.Assessment {
	return &model.Assessment{
		ControlID:      types.ControlID(d.ControlID),
		MaturityLevel:  types.MaturityLevel(d.MaturityLevel),
		TargetMaturity: types.MaturityLevel(d.TargetMaturity),
		Status:         types.AssessmentStatus(d.Status),
		Notes:          d.Notes,
		Assessor:       d.Assessor,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type assessmentRepository struct {
	root *collectionRoot
}

func (r *assessmentRepository) collection(orgID types.OrganizationID) *firestore.CollectionRef {
	return r.root.collection(orgID, "assessments")
}

func (r *assessmentRepository) Put(ctx context.Context, orgID types.OrganizationID, assessment *model.Assessment) (*model.Assessment, error) {
	docRef := r.collection(orgID).Doc(assessment.ControlID.String())

	now := time.Now().UTC()
	doc := &assessmentDocument{
		ControlID:      assessment.ControlID.String(),
		MaturityLevel:  int(assessment.MaturityLevel),
		TargetMaturity: int(assessment.TargetMaturity),
		Status:         assessment.Status.String(),
		Notes:          assessment.Notes,
		Assessor:       assessment.Assessor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := r.root.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get assessment")
		}
		if err == nil {
			var existing assessmentDocument
			if err := snap.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal assessment")
			}
			doc.CreatedAt = existing.CreatedAt
		}
		return tx.Set(docRef, doc)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put assessment",
			goerr.V("organization_id", orgID), goerr.V("control_id", assessment.ControlID))
	}

	return doc.toModel(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) (*model.Assessment, error) {
	snap, err := r.collection(orgID).Doc(controlID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found",
				goerr.V("organization_id", orgID), goerr.V("control_id", controlID))
		}
		return nil, goerr.Wrap(err, "failed to get assessment",
			goerr.V("organization_id", orgID), goerr.V("control_id", controlID))
	}

	var doc assessmentDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("control_id", controlID))
	}
	return doc.toModel(), nil
}

func (r *assessmentRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.Assessment, error) {
	iter := r.collection(orgID).OrderBy("control_id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	assessments := make([]*model.Assessment, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments", goerr.V("organization_id", orgID))
		}

		var doc assessmentDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment")
		}
		assessments = append(assessments, doc.toModel())
	}

	return assessments, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) error {
	docRef := r.collection(orgID).Doc(controlID.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "assessment not found",
				goerr.V("organization_id", orgID), goerr.V("control_id", controlID))
		}
		return goerr.Wrap(err, "failed to get assessment", goerr.V("control_id", controlID))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V("control_id", controlID))
	}
	return nil
}
