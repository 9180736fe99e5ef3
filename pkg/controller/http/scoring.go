package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/scoring"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

type thresholdsResponse struct {
	RiskScore []scoring.ScoreBand `json:"risk_score"`
	RiskLevel []scoring.LevelBand `json:"risk_level"`
}

type riskScoreResponse struct {
	Current        types.MaturityLevel    `json:"current"`
	Target         types.MaturityLevel    `json:"target"`
	Weight         types.Weight           `json:"weight"`
	Gap            int                    `json:"gap"`
	Score          int                    `json:"score"`
	Classification scoring.Classification `json:"classification"`
}

func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, thresholdsResponse{
		RiskScore: scoring.RiskScoreThresholds(),
		RiskLevel: scoring.RiskLevelBands(),
	})
}

func (s *Server) handleRiskScore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	current, err := types.ParseMaturityLevel(q.Get("current"))
	if err != nil {
		handleError(w, r, badRequest("invalid current maturity", goerr.V("error", err.Error())))
		return
	}
	target, err := types.ParseMaturityLevel(q.Get("target"))
	if err != nil {
		handleError(w, r, badRequest("invalid target maturity", goerr.V("error", err.Error())))
		return
	}
	weight, err := queryInt(r, "weight", 1)
	if err != nil {
		handleError(w, r, err)
		return
	}

	score := scoring.CalculateRiskScore(current, target, types.Weight(weight))
	writeJSON(w, r, http.StatusOK, riskScoreResponse{
		Current:        current,
		Target:         target,
		Weight:         types.Weight(weight).Normalize(),
		Gap:            scoring.MaturityGap(current, target),
		Score:          score,
		Classification: scoring.ClassifyRiskScore(score),
	})
}

func (s *Server) handleRiskLevel(w http.ResponseWriter, r *http.Request) {
	probability, err := queryInt(r, "probability", types.MinRiskFactor)
	if err != nil {
		handleError(w, r, err)
		return
	}
	impact, err := queryInt(r, "impact", types.MinRiskFactor)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, scoring.EvaluateRiskLevel(types.Probability(probability), types.Impact(impact)))
}
