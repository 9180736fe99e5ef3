package model

import (
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// EvidenceID is a UUID-based identifier for Evidence
type EvidenceID string

// NewEvidenceID generates a new UUID v4 EvidenceID
func NewEvidenceID() EvidenceID {
	return EvidenceID(uuid.New().String())
}

func (id EvidenceID) String() string {
	return string(id)
}

// Evidence is the metadata of a file stored in the evidence vault
type Evidence struct {
	ID          EvidenceID
	ControlID   types.ControlID
	FileName    string
	ContentType string
	Size        int64
	SHA256      string
	ObjectPath  string
	UploadedBy  string
	UploadedAt  time.Time
}

// EvidenceObjectPath returns the blob path of an evidence file: <org>/<control>/<evidence-id>/<filename>
func EvidenceObjectPath(orgID types.OrganizationID, controlID types.ControlID, id EvidenceID, fileName string) string {
	return path.Join(orgID.String(), controlID.String(), id.String(), path.Base(fileName))
}

// Copy returns a copy of the evidence metadata
func (e *Evidence) Copy() *Evidence {
	copied := *e
	return &copied
}
