package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/aegis/pkg/controller/http"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/secmon-lab/aegis/pkg/repository/memory"
	"github.com/secmon-lab/aegis/pkg/service/storage"
	"github.com/secmon-lab/aegis/pkg/usecase"
)

func newTestServer(t *testing.T, opts ...usecase.Option) *httpctrl.Server {
	t.Helper()

	catalog, err := model.NewCatalog(
		[]*model.Framework{
			{ID: types.FrameworkNISTCSF, Name: "NIST CSF 2.0"},
			{ID: types.FrameworkISO27001, Name: "ISO/IEC 27001:2022"},
		},
		[]*model.Control{
			{ID: "pr-aa-01", Framework: types.FrameworkNISTCSF, Code: "PR.AA-01", Name: "Identities and credentials are managed", Weight: 3},
			{ID: "de-cm-01", Framework: types.FrameworkNISTCSF, Code: "DE.CM-01", Name: "Networks are monitored", Weight: 2},
			{ID: "a-5-1", Framework: types.FrameworkISO27001, Code: "A.5.1", Name: "Policies for information security"},
		},
	)
	gt.NoError(t, err).Required()

	registry := model.NewOrganizationRegistry()
	registry.Register(&model.Organization{
		ID:         "acme",
		Name:       "ACME",
		Frameworks: []types.FrameworkID{types.FrameworkNISTCSF},
	})

	uc := usecase.New(memory.New(), registry, catalog, opts...)
	return httpctrl.New(uc)
}

func doRequest(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := doRequest(t, srv, http.MethodGet, "/health", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
}

func TestScoringEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("risk score is classified", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/scoring/risk-score?current=1&target=4&weight=3", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		resp := decodeBody[map[string]any](t, w)
		gt.Value(t, resp["score"]).Equal(float64(9))
		gt.Value(t, resp["current"]).Equal("1")
		classification := resp["classification"].(map[string]any)
		gt.Value(t, classification["level"]).Equal("CRITICAL")
	})

	t.Run("weight defaults to 1", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/scoring/risk-score?current=2&target=5", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		resp := decodeBody[map[string]any](t, w)
		gt.Value(t, resp["score"]).Equal(float64(3))
		gt.Value(t, resp["weight"]).Equal(float64(1))
	})

	t.Run("invalid maturity is rejected", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/scoring/risk-score?current=x&target=4", nil)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("risk level resolves band", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/scoring/risk-level?probability=4&impact=5", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		resp := decodeBody[map[string]any](t, w)
		gt.Value(t, resp["level"]).Equal(float64(20))
		gt.Value(t, resp["band"]).Equal("critical")
		gt.Value(t, resp["color"]).Equal("red")
	})

	t.Run("thresholds list both tables", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/scoring/thresholds", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		resp := decodeBody[struct {
			RiskScore []map[string]any `json:"risk_score"`
			RiskLevel []map[string]any `json:"risk_level"`
		}](t, w)
		gt.Array(t, resp.RiskScore).Length(4)
		gt.Array(t, resp.RiskLevel).Length(5)
	})
}

func TestOrganizationEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("list organizations", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		resp := decodeBody[[]map[string]any](t, w)
		gt.Array(t, resp).Length(1).Required()
		gt.Value(t, resp[0]["id"]).Equal("acme")
	})

	t.Run("unknown organization is 404", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations/unknown/controls", nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)

		resp := decodeBody[map[string]string](t, w)
		gt.String(t, resp["error"]).NotEqual("")
	})

	t.Run("controls only include adopted frameworks", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations/acme/controls", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		resp := decodeBody[[]map[string]any](t, w)
		gt.Array(t, resp).Length(2)
	})
}

func TestAssessmentFlow(t *testing.T) {
	srv := newTestServer(t)

	t.Run("put accepts string and numeric maturity", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPut, "/api/organizations/acme/assessments/pr-aa-01", map[string]any{
			"maturity_level":  "1",
			"target_maturity": 4,
			"status":          "nao_conforme",
			"assessor":        "alice",
		})
		gt.Value(t, w.Code).Equal(http.StatusOK)

		resp := decodeBody[map[string]any](t, w)
		gt.Value(t, resp["score"]).Equal(float64(9))
		assessment := resp["assessment"].(map[string]any)
		gt.Value(t, assessment["maturity_level"]).Equal("1")
		gt.Value(t, assessment["target_maturity"]).Equal("4")
	})

	t.Run("attention lists the critical control", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations/acme/controls/attention", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		resp := decodeBody[[]map[string]any](t, w)
		gt.Array(t, resp).Length(1).Required()
		classification := resp[0]["classification"].(map[string]any)
		gt.Value(t, classification["level"]).Equal("CRITICAL")
	})

	t.Run("out of range maturity is 400", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPut, "/api/organizations/acme/assessments/de-cm-01", map[string]any{
			"maturity_level":  "7",
			"target_maturity": "4",
			"status":          "parcial",
		})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unknown field is 400", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPut, "/api/organizations/acme/assessments/de-cm-01", map[string]any{
			"maturity": "1",
		})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("control of a framework not adopted is 404", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPut, "/api/organizations/acme/assessments/a-5-1", map[string]any{
			"maturity_level":  "1",
			"target_maturity": "2",
			"status":          "parcial",
		})
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})

	t.Run("unassessed control reads as empty", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations/acme/assessments/de-cm-01", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		resp := decodeBody[map[string]any](t, w)
		gt.Value(t, resp["assessment"]).Nil()
		gt.Value(t, resp["score"]).Equal(float64(0))
	})

	t.Run("delete then list", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodDelete, "/api/organizations/acme/assessments/pr-aa-01", nil)
		gt.Value(t, w.Code).Equal(http.StatusNoContent)

		w = doRequest(t, srv, http.MethodGet, "/api/organizations/acme/assessments", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		resp := decodeBody[[]map[string]any](t, w)
		gt.Array(t, resp).Length(0)
	})
}

func TestRiskFlow(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/organizations/acme/risks", map[string]any{
		"name":                 "Ransomware",
		"category":             "cyber",
		"inherent_probability": 4,
		"inherent_impact":      5,
		"residual_probability": 2,
		"residual_impact":      3,
	})
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	created := decodeBody[map[string]any](t, w)
	gt.Value(t, created["id"]).Equal(float64(1))
	inherent := created["inherent"].(map[string]any)
	gt.Value(t, inherent["level"]).Equal(float64(20))
	residual := created["residual"].(map[string]any)
	gt.Value(t, residual["band"]).Equal("low")

	t.Run("residual above inherent is 400", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPost, "/api/organizations/acme/risks", map[string]any{
			"name":                 "Phishing",
			"inherent_probability": 2,
			"inherent_impact":      2,
			"residual_probability": 3,
			"residual_impact":      3,
		})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("get and update", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations/acme/risks/1", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)

		w = doRequest(t, srv, http.MethodPut, "/api/organizations/acme/risks/1", map[string]any{
			"name":                 "Ransomware",
			"inherent_probability": 5,
			"inherent_impact":      5,
		})
		gt.Value(t, w.Code).Equal(http.StatusOK)
		updated := decodeBody[map[string]any](t, w)
		gt.Value(t, updated["residual"]).Nil()
	})

	t.Run("non numeric id is 400", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations/acme/risks/abc", nil)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("delete then get is 404", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodDelete, "/api/organizations/acme/risks/1", nil)
		gt.Value(t, w.Code).Equal(http.StatusNoContent)

		w = doRequest(t, srv, http.MethodGet, "/api/organizations/acme/risks/1", nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})
}

func TestActionPlanFlow(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, http.MethodPut, "/api/organizations/acme/assessments/pr-aa-01", map[string]any{
		"maturity_level":  "0",
		"target_maturity": "3",
		"status":          "nao_conforme",
	})
	gt.Value(t, w.Code).Equal(http.StatusOK)

	w = doRequest(t, srv, http.MethodPost, "/api/organizations/acme/action-plans/generate", nil)
	gt.Value(t, w.Code).Equal(http.StatusCreated)
	plans := decodeBody[[]map[string]any](t, w)
	gt.Array(t, plans).Length(1).Required()
	gt.Value(t, plans[0]["priority"]).Equal("CRITICAL")
	gt.Value(t, plans[0]["status"]).Equal("todo")
	id := plans[0]["id"].(string)

	t.Run("second generation creates nothing", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPost, "/api/organizations/acme/action-plans/generate", nil)
		gt.Value(t, w.Code).Equal(http.StatusCreated)
		gt.Array(t, decodeBody[[]map[string]any](t, w)).Length(0)
	})

	t.Run("status update", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodPatch, "/api/organizations/acme/action-plans/"+id, map[string]any{"status": "in_progress"})
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Value(t, decodeBody[map[string]any](t, w)["status"]).Equal("in_progress")

		w = doRequest(t, srv, http.MethodPatch, "/api/organizations/acme/action-plans/"+id, map[string]any{"status": "someday"})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("list by control", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations/acme/action-plans?control=pr-aa-01", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Array(t, decodeBody[[]map[string]any](t, w)).Length(1)

		w = doRequest(t, srv, http.MethodGet, "/api/organizations/acme/action-plans?control=de-cm-01", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Array(t, decodeBody[[]map[string]any](t, w)).Length(0)
	})

	t.Run("unknown plan is 404", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations/acme/action-plans/missing", nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})
}

// countingReader records how many bytes the handler pulled from the request body
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func TestEvidenceFlow(t *testing.T) {
	t.Run("without storage evidence endpoints are 501", func(t *testing.T) {
		srv := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/organizations/acme/controls/pr-aa-01/evidence?filename=policy.txt", bytes.NewReader([]byte("hello")))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusNotImplemented)

		w = doRequest(t, srv, http.MethodGet, "/api/organizations/acme/controls/pr-aa-01/evidence", nil)
		gt.Value(t, w.Code).Equal(http.StatusNotImplemented)

		w = doRequest(t, srv, http.MethodDelete, "/api/organizations/acme/evidence/any", nil)
		gt.Value(t, w.Code).Equal(http.StatusNotImplemented)
	})

	srv := newTestServer(t, usecase.WithBlobStorage(storage.NewMemory()), usecase.WithMaxEvidenceSize(16))

	req := httptest.NewRequest(http.MethodPost, "/api/organizations/acme/controls/pr-aa-01/evidence?filename=policy.txt", bytes.NewReader([]byte("hello")))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Aegis-User", "alice")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	gt.Value(t, w.Code).Equal(http.StatusCreated)

	uploaded := decodeBody[map[string]any](t, w)
	gt.Value(t, uploaded["file_name"]).Equal("policy.txt")
	gt.Value(t, uploaded["uploaded_by"]).Equal("alice")
	gt.Value(t, uploaded["size"]).Equal(float64(5))
	id := uploaded["id"].(string)

	t.Run("download returns content and headers", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations/acme/evidence/"+id, nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Value(t, w.Body.String()).Equal("hello")
		gt.Value(t, w.Header().Get("Content-Type")).Equal("text/plain")
		gt.String(t, w.Header().Get("Content-Disposition")).Contains("policy.txt")
		gt.Value(t, w.Header().Get("X-Checksum-Sha256")).Equal(uploaded["sha256"].(string))
	})

	t.Run("multipart upload", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "scan.txt")
		gt.NoError(t, err).Required()
		_, err = fw.Write([]byte("scan"))
		gt.NoError(t, err).Required()
		gt.NoError(t, mw.Close()).Required()

		req := httptest.NewRequest(http.MethodPost, "/api/organizations/acme/controls/pr-aa-01/evidence", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusCreated)
		gt.Value(t, decodeBody[map[string]any](t, w)["file_name"]).Equal("scan.txt")
	})

	t.Run("list evidence of a control", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodGet, "/api/organizations/acme/controls/pr-aa-01/evidence", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Array(t, decodeBody[[]map[string]any](t, w)).Length(2)
	})

	t.Run("oversized upload is 413", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/organizations/acme/controls/pr-aa-01/evidence?filename=big.bin",
			bytes.NewReader(bytes.Repeat([]byte("x"), 17)))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusRequestEntityTooLarge)
	})

	t.Run("oversized multipart upload is 413 without reading the whole body", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "dump.bin")
		gt.NoError(t, err).Required()
		_, err = fw.Write(bytes.Repeat([]byte("x"), 8<<20))
		gt.NoError(t, err).Required()
		gt.NoError(t, mw.Close()).Required()
		total := buf.Len()

		body := &countingReader{r: &buf}
		req := httptest.NewRequest(http.MethodPost, "/api/organizations/acme/controls/pr-aa-01/evidence", body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusRequestEntityTooLarge)
		gt.Number(t, body.n).Less(1 << 20)
		gt.Number(t, body.n).Less(total)
	})

	t.Run("multipart without file field is 400", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		gt.NoError(t, mw.WriteField("note", "no file")).Required()
		gt.NoError(t, mw.Close()).Required()

		req := httptest.NewRequest(http.MethodPost, "/api/organizations/acme/controls/pr-aa-01/evidence", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("missing filename is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/organizations/acme/controls/pr-aa-01/evidence", bytes.NewReader([]byte("x")))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("delete then download is 404", func(t *testing.T) {
		w := doRequest(t, srv, http.MethodDelete, "/api/organizations/acme/evidence/"+id, nil)
		gt.Value(t, w.Code).Equal(http.StatusNoContent)

		w = doRequest(t, srv, http.MethodGet, "/api/organizations/acme/evidence/"+id, nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})
}

func TestSummary(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPut, "/api/organizations/acme/assessments/pr-aa-01", map[string]any{
		"maturity_level":  "2",
		"target_maturity": "4",
		"status":          "parcial",
	})
	doRequest(t, srv, http.MethodPost, "/api/organizations/acme/risks", map[string]any{
		"name":                 "Outage",
		"inherent_probability": 3,
		"inherent_impact":      4,
		"residual_probability": 2,
		"residual_impact":      3,
	})

	w := doRequest(t, srv, http.MethodGet, "/api/organizations/acme/summary", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	resp := decodeBody[struct {
		OrganizationID string `json:"organization_id"`
		Frameworks     []struct {
			FrameworkID       string  `json:"framework_id"`
			ControlCount      int     `json:"control_count"`
			AssessedCount     int     `json:"assessed_count"`
			CompliancePercent float64 `json:"compliance_percent"`
		} `json:"frameworks"`
		AttentionCount int `json:"attention_count"`
		Risks          struct {
			Total     int `json:"total"`
			Reduction struct {
				From      float64 `json:"from"`
				To        float64 `json:"to"`
				Direction string  `json:"direction"`
			} `json:"reduction"`
		} `json:"risks"`
	}](t, w)

	gt.Value(t, resp.OrganizationID).Equal("acme")
	gt.Array(t, resp.Frameworks).Length(1).Required()
	gt.Value(t, resp.Frameworks[0].ControlCount).Equal(2)
	gt.Value(t, resp.Frameworks[0].AssessedCount).Equal(1)
	gt.Value(t, resp.Frameworks[0].CompliancePercent).Equal(50.0)
	gt.Value(t, resp.AttentionCount).Equal(1)
	gt.Value(t, resp.Risks.Total).Equal(1)
	gt.Value(t, resp.Risks.Reduction.From).Equal(12.0)
	gt.Value(t, resp.Risks.Reduction.To).Equal(6.0)
	gt.Value(t, resp.Risks.Reduction.Direction).Equal("down")
}
