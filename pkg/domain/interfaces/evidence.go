package interfaces

import (
	"context"
	"io"

	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// EvidenceRepository stores evidence metadata. File contents live in BlobStorage.
type EvidenceRepository interface {
	Create(ctx context.Context, orgID types.OrganizationID, evidence *model.Evidence) (*model.Evidence, error)
	Get(ctx context.Context, orgID types.OrganizationID, id model.EvidenceID) (*model.Evidence, error)
	ListByControl(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) ([]*model.Evidence, error)
	Delete(ctx context.Context, orgID types.OrganizationID, id model.EvidenceID) error
}

// BlobStorage stores evidence file contents by object path
type BlobStorage interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) error
	Get(ctx context.Context, objectPath string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectPath string) error
}
