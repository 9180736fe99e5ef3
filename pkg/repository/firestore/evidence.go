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

type evidenceDocument struct {
	ID          string    `firestore:"id"`
	ControlID   string    `firestore:"control_id"`
	FileName    string    `firestore:"file_name"`
	ContentType string    `firestore:"content_type"`
	Size        int64     `firestore:"size"`
	SHA256      string    `firestore:"sha256"`
	ObjectPath  string    `firestore:"object_path"`
	UploadedBy  string    `firestore:"uploaded_by"`
	UploadedAt  time.Time `firestore:"uploaded_at"`
}

func (d *evidenceDocument) toModel() *model.Evidence {
	return &model.Evidence{
		ID:          model.EvidenceID(d.ID),
		ControlID:   types.ControlID(d.ControlID),
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Size:        d.Size,
		SHA256:      d.SHA256,
		ObjectPath:  d.ObjectPath,
		UploadedBy:  d.UploadedBy,
		UploadedAt:  d.UploadedAt,
	}
}

type evidenceRepository struct {
	root *collectionRoot
}

func (r *evidenceRepository) collection(orgID types.OrganizationID) *firestore.CollectionRef {
	return r.root.collection(orgID, "evidence")
}

func (r *evidenceRepository) Create(ctx context.Context, orgID types.OrganizationID, evidence *model.Evidence) (*model.Evidence, error) {
	doc := &evidenceDocument{
		ID:          evidence.ID.String(),
		ControlID:   evidence.ControlID.String(),
		FileName:    evidence.FileName,
		ContentType: evidence.ContentType,
		Size:        evidence.Size,
		SHA256:      evidence.SHA256,
		ObjectPath:  evidence.ObjectPath,
		UploadedBy:  evidence.UploadedBy,
		UploadedAt:  evidence.UploadedAt,
	}
	if doc.ID == "" {
		doc.ID = model.NewEvidenceID().String()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	if _, err := r.collection(orgID).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create evidence",
			goerr.V("organization_id", orgID), goerr.V("control_id", evidence.ControlID))
	}
	return doc.toModel(), nil
}

func (r *evidenceRepository) Get(ctx context.Context, orgID types.OrganizationID, id model.EvidenceID) (*model.Evidence, error) {
	snap, err := r.collection(orgID).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("organization_id", orgID), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get evidence", goerr.V("id", id))
	}

	var doc evidenceDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal evidence", goerr.V("id", id))
	}
	return doc.toModel(), nil
}

func (r *evidenceRepository) ListByControl(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) ([]*model.Evidence, error) {
	iter := r.collection(orgID).
		Where("control_id", "==", controlID.String()).
		OrderBy("uploaded_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	result := make([]*model.Evidence, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate evidence", goerr.V("control_id", controlID))
		}

		var doc evidenceDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal evidence")
		}
		result = append(result, doc.toModel())
	}
	return result, nil
}

func (r *evidenceRepository) Delete(ctx context.Context, orgID types.OrganizationID, id model.EvidenceID) error {
	docRef := r.collection(orgID).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "evidence not found", goerr.V("organization_id", orgID), goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get evidence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete evidence", goerr.V("id", id))
	}
	return nil
}
