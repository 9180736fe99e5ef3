package http

import (
	"net/http"

	"github.com/secmon-lab/aegis/pkg/domain/types"
)

func (s *Server) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs := s.uc.Organizations()
	resp := make([]organizationResponse, len(orgs))
	for i, org := range orgs {
		resp[i] = organizationResponse{
			ID:         org.ID.String(),
			Name:       org.Name,
			Frameworks: org.Frameworks,
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleListControls(w http.ResponseWriter, r *http.Request) {
	framework := types.FrameworkID(r.URL.Query().Get("framework"))

	scored, err := s.uc.Control.ListScoredControls(r.Context(), orgParam(r), framework)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toScoredControlResponses(scored))
}

func (s *Server) handleListAttention(w http.ResponseWriter, r *http.Request) {
	scored, err := s.uc.Control.ListAttention(r.Context(), orgParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toScoredControlResponses(scored))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.Summary.GetSummary(r.Context(), orgParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSummaryResponse(summary))
}
