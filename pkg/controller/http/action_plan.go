package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

func (s *Server) handleListActionPlans(w http.ResponseWriter, r *http.Request) {
	controlID := types.ControlID(r.URL.Query().Get("control"))

	plans, err := s.uc.ActionPlan.ListActionPlans(r.Context(), orgParam(r), controlID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toActionPlanResponses(plans))
}

func (s *Server) handleGenerateActionPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.uc.ActionPlan.GenerateActionPlans(r.Context(), orgParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toActionPlanResponses(plans))
}

func (s *Server) handleGetActionPlan(w http.ResponseWriter, r *http.Request) {
	id := model.ActionPlanID(chi.URLParam(r, "id"))

	plan, err := s.uc.ActionPlan.GetActionPlan(r.Context(), orgParam(r), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toActionPlanResponse(plan))
}

func (s *Server) handleUpdateActionPlan(w http.ResponseWriter, r *http.Request) {
	id := model.ActionPlanID(chi.URLParam(r, "id"))

	var req actionPlanStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	plan, err := s.uc.ActionPlan.UpdateActionPlanStatus(r.Context(), orgParam(r), id, req.Status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toActionPlanResponse(plan))
}
