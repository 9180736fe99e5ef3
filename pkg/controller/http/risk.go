package http

import "net/http"

func (s *Server) handleListRisks(w http.ResponseWriter, r *http.Request) {
	risks, err := s.uc.Risk.ListRisks(r.Context(), orgParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]riskResponse, len(risks))
	for i, risk := range risks {
		resp[i] = toRiskResponse(risk)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleCreateRisk(w http.ResponseWriter, r *http.Request) {
	var req riskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.CreateRisk(r.Context(), orgParam(r), req.toInput())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toRiskResponse(risk))
}

func (s *Server) handleGetRisk(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.GetRisk(r.Context(), orgParam(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) handleUpdateRisk(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req riskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.UpdateRisk(r.Context(), orgParam(r), id, req.toInput())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) handleDeleteRisk(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Risk.DeleteRisk(r.Context(), orgParam(r), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
