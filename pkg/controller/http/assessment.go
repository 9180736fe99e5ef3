package http

import (
	"net/http"

	"github.com/secmon-lab/aegis/pkg/usecase"
)

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	assessments, err := s.uc.Assessment.ListAssessments(r.Context(), orgParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]*assessmentResponse, len(assessments))
	for i, a := range assessments {
		resp[i] = toAssessmentResponse(a)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	scored, err := s.uc.Assessment.GetAssessment(r.Context(), orgParam(r), controlParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toScoredControlResponse(scored))
}

func (s *Server) handlePutAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	scored, err := s.uc.Assessment.PutAssessment(r.Context(), orgParam(r), controlParam(r), usecase.AssessmentInput{
		MaturityLevel:  req.MaturityLevel,
		TargetMaturity: req.TargetMaturity,
		Status:         req.Status,
		Notes:          req.Notes,
		Assessor:       req.Assessor,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toScoredControlResponse(scored))
}

func (s *Server) handleDeleteAssessment(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Assessment.DeleteAssessment(r.Context(), orgParam(r), controlParam(r)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
