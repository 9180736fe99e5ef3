package http

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/usecase"
	"github.com/secmon-lab/aegis/pkg/utils/safe"
)

const (
	// uploaderHeader carries the name of the person uploading evidence
	uploaderHeader = "X-Aegis-User"

	// multipartOverhead covers boundaries, part headers and small form fields around the file
	multipartOverhead = 64 << 10
)

func (s *Server) handleListEvidence(w http.ResponseWriter, r *http.Request) {
	list, err := s.uc.Evidence.ListEvidence(r.Context(), orgParam(r), controlParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]evidenceResponse, len(list))
	for i, e := range list {
		resp[i] = toEvidenceResponse(e)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleUploadEvidence accepts either a multipart form with a "file" field or a raw body
// named by the "filename" query parameter.
func (s *Server) handleUploadEvidence(w http.ResponseWriter, r *http.Request) {
	upload := usecase.EvidenceUpload{
		FileName:    r.URL.Query().Get("filename"),
		ContentType: r.Header.Get("Content-Type"),
		UploadedBy:  r.Header.Get(uploaderHeader),
		Body:        r.Body,
	}

	if mediaType, _, err := mime.ParseMediaType(upload.ContentType); err == nil && mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, s.uc.Evidence.MaxSize()+multipartOverhead)
		part, err := fileFormPart(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		defer safe.Close(r.Context(), part, "file_name", part.FileName())

		upload.Body = part
		upload.FileName = part.FileName()
		upload.ContentType = part.Header.Get("Content-Type")
	}

	if strings.TrimSpace(upload.FileName) == "" {
		handleError(w, r, badRequest("filename is required"))
		return
	}

	evidence, err := s.uc.Evidence.UploadEvidence(r.Context(), orgParam(r), controlParam(r), upload)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toEvidenceResponse(evidence))
}

// fileFormPart streams to the "file" part without buffering the body, so the upload size
// limit applies while the file is read.
func fileFormPart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, badRequest("invalid multipart body", goerr.V("error", err.Error()))
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, badRequest("multipart upload requires a file field")
		}
		if err != nil {
			return nil, goerr.Wrap(errors.Join(errBadRequest, err), "failed to read multipart body")
		}
		if part.FormName() == "file" {
			return part, nil
		}
	}
}

func (s *Server) handleDownloadEvidence(w http.ResponseWriter, r *http.Request) {
	id := model.EvidenceID(chi.URLParam(r, "id"))

	evidence, body, err := s.uc.Evidence.DownloadEvidence(r.Context(), orgParam(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	defer safe.Close(r.Context(), body, "evidence_id", id)

	w.Header().Set("Content-Type", evidence.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": evidence.FileName}))
	w.Header().Set("Content-Length", strconv.FormatInt(evidence.Size, 10))
	w.Header().Set("X-Checksum-Sha256", evidence.SHA256)
	w.WriteHeader(http.StatusOK)
	safe.Copy(r.Context(), w, body)
}

func (s *Server) handleDeleteEvidence(w http.ResponseWriter, r *http.Request) {
	id := model.EvidenceID(chi.URLParam(r, "id"))

	if err := s.uc.Evidence.DeleteEvidence(r.Context(), orgParam(r), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

