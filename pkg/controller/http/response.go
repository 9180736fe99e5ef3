package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/secmon-lab/aegis/pkg/service/storage"
	"github.com/secmon-lab/aegis/pkg/usecase"
	"github.com/secmon-lab/aegis/pkg/utils/errutil"
	"github.com/secmon-lab/aegis/pkg/utils/safe"
)

// maxRequestBodySize limits JSON request bodies
const maxRequestBodySize = 1 << 20

// errBadRequest marks malformed requests detected by the controller itself
var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(errors.Join(errBadRequest, err), "invalid request body")
	}
	return nil
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, usecase.ErrEvidenceTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest), errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrStorageNotConfigured):
		return http.StatusNotImplemented
	case errors.Is(err, interfaces.ErrNotFound),
		errors.Is(err, model.ErrOrganizationNotFound),
		errors.Is(err, model.ErrControlNotFound),
		errors.Is(err, model.ErrFrameworkNotFound),
		errors.Is(err, storage.ErrObjectNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

func badRequest(msg string, opts ...goerr.Option) error {
	return goerr.Wrap(errBadRequest, msg, opts...)
}

func orgParam(r *http.Request) types.OrganizationID {
	return types.OrganizationID(chi.URLParam(r, "org"))
}

func controlParam(r *http.Request) types.ControlID {
	return types.ControlID(chi.URLParam(r, "control"))
}

func intParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badRequest("invalid numeric path parameter", goerr.V("name", name), goerr.V("value", raw))
	}
	return v, nil
}

// queryInt parses an integer query parameter. An absent parameter yields def.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid numeric query parameter", goerr.V("name", name), goerr.V("value", raw))
	}
	return v, nil
}
