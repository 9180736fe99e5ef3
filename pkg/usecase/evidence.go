package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/secmon-lab/aegis/pkg/utils/errutil"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
)

type EvidenceUseCase struct {
	repo    interfaces.Repository
	orgs    *model.OrganizationRegistry
	catalog *model.Catalog
	blob    interfaces.BlobStorage
	maxSize int64
}

// EvidenceUpload describes one uploaded file
type EvidenceUpload struct {
	FileName    string
	ContentType string
	UploadedBy  string
	Body        io.Reader
}

// MaxSize returns the upload limit in bytes
func (uc *EvidenceUseCase) MaxSize() int64 {
	return uc.maxSize
}

func (uc *EvidenceUseCase) checkControl(orgID types.OrganizationID, controlID types.ControlID) error {
	org, err := uc.orgs.Get(orgID)
	if err != nil {
		return err
	}
	if _, err := uc.catalog.OrganizationControl(org, controlID); err != nil {
		return err
	}
	return nil
}

// UploadEvidence stores the file in blob storage and records its metadata and SHA-256 digest
func (uc *EvidenceUseCase) UploadEvidence(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID, upload EvidenceUpload) (*model.Evidence, error) {
	if uc.blob == nil {
		return nil, goerr.Wrap(ErrStorageNotConfigured, "evidence upload is not available")
	}
	if err := uc.checkControl(orgID, controlID); err != nil {
		return nil, err
	}

	fileName := path.Base(strings.ReplaceAll(upload.FileName, "\\", "/"))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, invalidInput(goerr.New("file name is required"), "invalid evidence",
			goerr.V(ControlIDKey, controlID))
	}
	if upload.Body == nil {
		return nil, invalidInput(goerr.New("file body is required"), "invalid evidence",
			goerr.V(ControlIDKey, controlID))
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, uc.maxSize+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read evidence body", goerr.V(ControlIDKey, controlID))
	}
	if int64(len(data)) > uc.maxSize {
		return nil, goerr.Wrap(ErrEvidenceTooLarge, "evidence too large",
			goerr.V(ControlIDKey, controlID), goerr.V("max_size", uc.maxSize))
	}

	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	digest := sha256.Sum256(data)
	id := model.NewEvidenceID()
	evidence := &model.Evidence{
		ID:          id,
		ControlID:   controlID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		SHA256:      hex.EncodeToString(digest[:]),
		ObjectPath:  model.EvidenceObjectPath(orgID, controlID, id, fileName),
		UploadedBy:  upload.UploadedBy,
		UploadedAt:  time.Now().UTC(),
	}

	if err := uc.blob.Put(ctx, evidence.ObjectPath, contentType, bytes.NewReader(data)); err != nil {
		return nil, goerr.Wrap(err, "failed to store evidence file",
			goerr.V(OrganizationIDKey, orgID), goerr.V(ControlIDKey, controlID))
	}

	created, err := uc.repo.Evidence().Create(ctx, orgID, evidence)
	if err != nil {
		// Rollback: remove the stored file (best effort)
		if delErr := uc.blob.Delete(ctx, evidence.ObjectPath); delErr != nil {
			errutil.Handle(ctx, delErr, "failed to remove orphaned evidence file")
		}
		return nil, goerr.Wrap(err, "failed to save evidence metadata",
			goerr.V(OrganizationIDKey, orgID), goerr.V(ControlIDKey, controlID))
	}

	logging.From(ctx).Info("evidence uploaded",
		"organization_id", orgID,
		"control_id", controlID,
		"evidence_id", created.ID,
		"size", created.Size)
	return created, nil
}

func (uc *EvidenceUseCase) ListEvidence(ctx context.Context, orgID types.OrganizationID, controlID types.ControlID) ([]*model.Evidence, error) {
	if uc.blob == nil {
		return nil, goerr.Wrap(ErrStorageNotConfigured, "evidence listing is not available")
	}
	if err := uc.checkControl(orgID, controlID); err != nil {
		return nil, err
	}

	list, err := uc.repo.Evidence().ListByControl(ctx, orgID, controlID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list evidence",
			goerr.V(OrganizationIDKey, orgID), goerr.V(ControlIDKey, controlID))
	}
	return list, nil
}

func (uc *EvidenceUseCase) GetEvidence(ctx context.Context, orgID types.OrganizationID, id model.EvidenceID) (*model.Evidence, error) {
	if _, err := uc.orgs.Get(orgID); err != nil {
		return nil, err
	}

	evidence, err := uc.repo.Evidence().Get(ctx, orgID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get evidence", goerr.V(OrganizationIDKey, orgID), goerr.V(EvidenceIDKey, id))
	}
	return evidence, nil
}

// DownloadEvidence returns the metadata and an open reader of the file. The caller closes the reader.
func (uc *EvidenceUseCase) DownloadEvidence(ctx context.Context, orgID types.OrganizationID, id model.EvidenceID) (*model.Evidence, io.ReadCloser, error) {
	if uc.blob == nil {
		return nil, nil, goerr.Wrap(ErrStorageNotConfigured, "evidence download is not available")
	}

	evidence, err := uc.GetEvidence(ctx, orgID, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := uc.blob.Get(ctx, evidence.ObjectPath)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open evidence file",
			goerr.V(EvidenceIDKey, id), goerr.V("object_path", evidence.ObjectPath))
	}
	return evidence, body, nil
}

// DeleteEvidence removes the metadata first so that a failed file delete leaves no listed evidence
func (uc *EvidenceUseCase) DeleteEvidence(ctx context.Context, orgID types.OrganizationID, id model.EvidenceID) error {
	if uc.blob == nil {
		return goerr.Wrap(ErrStorageNotConfigured, "evidence deletion is not available")
	}

	evidence, err := uc.GetEvidence(ctx, orgID, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Evidence().Delete(ctx, orgID, id); err != nil {
		return goerr.Wrap(err, "failed to delete evidence", goerr.V(OrganizationIDKey, orgID), goerr.V(EvidenceIDKey, id))
	}

	if err := uc.blob.Delete(ctx, evidence.ObjectPath); err != nil {
		errutil.Handle(ctx, err, "failed to delete evidence file")
	}

	logging.From(ctx).Info("evidence deleted", "organization_id", orgID, "evidence_id", id)
	return nil
}
