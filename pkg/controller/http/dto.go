package http

import (
	"time"

	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/scoring"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/secmon-lab/aegis/pkg/usecase"
)

type organizationResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Frameworks []types.FrameworkID `json:"frameworks"`
}

type controlResponse struct {
	ID          types.ControlID   `json:"id"`
	Framework   types.FrameworkID `json:"framework"`
	Code        string            `json:"code"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Weight      types.Weight      `json:"weight"`
}

func toControlResponse(c *model.Control) controlResponse {
	return controlResponse{
		ID:          c.ID,
		Framework:   c.Framework,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		Weight:      c.Weight.Normalize(),
	}
}

type assessmentResponse struct {
	ControlID      types.ControlID        `json:"control_id"`
	MaturityLevel  types.MaturityLevel    `json:"maturity_level"`
	TargetMaturity types.MaturityLevel    `json:"target_maturity"`
	Status         types.AssessmentStatus `json:"status"`
	Notes          string                 `json:"notes,omitempty"`
	Assessor       string                 `json:"assessor,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func toAssessmentResponse(a *model.Assessment) *assessmentResponse {
	if a == nil {
		return nil
	}
	return &assessmentResponse{
		ControlID:      a.ControlID,
		MaturityLevel:  a.MaturityLevel,
		TargetMaturity: a.TargetMaturity,
		Status:         a.Status,
		Notes:          a.Notes,
		Assessor:       a.Assessor,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

type assessmentRequest struct {
	MaturityLevel  types.MaturityLevel    `json:"maturity_level"`
	TargetMaturity types.MaturityLevel    `json:"target_maturity"`
	Status         types.AssessmentStatus `json:"status"`
	Notes          string                 `json:"notes"`
	Assessor       string                 `json:"assessor"`
}

type scoredControlResponse struct {
	Control        controlResponse        `json:"control"`
	Assessment     *assessmentResponse    `json:"assessment"`
	Gap            int                    `json:"gap"`
	Score          int                    `json:"score"`
	Classification scoring.Classification `json:"classification"`
}

func toScoredControlResponse(sc *model.ScoredControl) scoredControlResponse {
	return scoredControlResponse{
		Control:        toControlResponse(sc.Control),
		Assessment:     toAssessmentResponse(sc.Assessment),
		Gap:            sc.Score.Gap,
		Score:          sc.Score.Score,
		Classification: sc.Score.Classification,
	}
}

func toScoredControlResponses(list []*model.ScoredControl) []scoredControlResponse {
	resp := make([]scoredControlResponse, len(list))
	for i, sc := range list {
		resp[i] = toScoredControlResponse(sc)
	}
	return resp
}

type riskRequest struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	Category            string `json:"category"`
	Owner               string `json:"owner"`
	InherentProbability int    `json:"inherent_probability"`
	InherentImpact      int    `json:"inherent_impact"`
	ResidualProbability *int   `json:"residual_probability"`
	ResidualImpact      *int   `json:"residual_impact"`
}

func (req *riskRequest) toInput() usecase.RiskInput {
	in := usecase.RiskInput{
		Name:                req.Name,
		Description:         req.Description,
		Category:            req.Category,
		Owner:               req.Owner,
		InherentProbability: types.Probability(req.InherentProbability),
		InherentImpact:      types.Impact(req.InherentImpact),
	}
	if req.ResidualProbability != nil {
		p := types.Probability(*req.ResidualProbability)
		in.ResidualProbability = &p
	}
	if req.ResidualImpact != nil {
		i := types.Impact(*req.ResidualImpact)
		in.ResidualImpact = &i
	}
	return in
}

type riskResponse struct {
	ID                  int64                    `json:"id"`
	Name                string                   `json:"name"`
	Description         string                   `json:"description,omitempty"`
	Category            string                   `json:"category,omitempty"`
	Owner               string                   `json:"owner,omitempty"`
	InherentProbability types.Probability        `json:"inherent_probability"`
	InherentImpact      types.Impact             `json:"inherent_impact"`
	ResidualProbability *types.Probability       `json:"residual_probability"`
	ResidualImpact      *types.Impact            `json:"residual_impact"`
	Inherent            scoring.RiskLevelResult  `json:"inherent"`
	Residual            *scoring.RiskLevelResult `json:"residual"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

func toRiskResponse(r *model.Risk) riskResponse {
	return riskResponse{
		ID:                  r.ID,
		Name:                r.Name,
		Description:         r.Description,
		Category:            r.Category,
		Owner:               r.Owner,
		InherentProbability: r.InherentProbability,
		InherentImpact:      r.InherentImpact,
		ResidualProbability: r.ResidualProbability,
		ResidualImpact:      r.ResidualImpact,
		Inherent:            r.InherentLevel(),
		Residual:            r.ResidualLevel(),
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

type actionPlanResponse struct {
	ID          model.ActionPlanID     `json:"id"`
	ControlID   types.ControlID        `json:"control_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Priority    types.RiskScoreClass   `json:"priority"`
	Status      types.ActionPlanStatus `json:"status"`
	DueDate     time.Time              `json:"due_date"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func toActionPlanResponses(plans []*model.ActionPlan) []actionPlanResponse {
	resp := make([]actionPlanResponse, len(plans))
	for i, p := range plans {
		resp[i] = toActionPlanResponse(p)
	}
	return resp
}

func toActionPlanResponse(p *model.ActionPlan) actionPlanResponse {
	return actionPlanResponse{
		ID:          p.ID,
		ControlID:   p.ControlID,
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Status:      p.Status,
		DueDate:     p.DueDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type actionPlanStatusRequest struct {
	Status types.ActionPlanStatus `json:"status"`
}

type evidenceResponse struct {
	ID          model.EvidenceID `json:"id"`
	ControlID   types.ControlID  `json:"control_id"`
	FileName    string           `json:"file_name"`
	ContentType string           `json:"content_type"`
	Size        int64            `json:"size"`
	SHA256      string           `json:"sha256"`
	UploadedBy  string           `json:"uploaded_by,omitempty"`
	UploadedAt  time.Time        `json:"uploaded_at"`
}

func toEvidenceResponse(e *model.Evidence) evidenceResponse {
	return evidenceResponse{
		ID:          e.ID,
		ControlID:   e.ControlID,
		FileName:    e.FileName,
		ContentType: e.ContentType,
		Size:        e.Size,
		SHA256:      e.SHA256,
		UploadedBy:  e.UploadedBy,
		UploadedAt:  e.UploadedAt,
	}
}

type frameworkSummaryResponse struct {
	FrameworkID       types.FrameworkID            `json:"framework_id"`
	ControlCount      int                          `json:"control_count"`
	AssessedCount     int                          `json:"assessed_count"`
	AverageMaturity   float64                      `json:"average_maturity"`
	AverageTarget     float64                      `json:"average_target"`
	CompliancePercent float64                      `json:"compliance_percent"`
	ScoreClassCounts  map[types.RiskScoreClass]int `json:"score_class_counts"`
}

type trendResponse struct {
	From         float64              `json:"from"`
	To           float64              `json:"to"`
	DeltaScore   float64              `json:"delta"`
	DeltaPercent float64              `json:"delta_percent"`
	Direction    model.TrendDirection `json:"direction"`
}

type riskSummaryResponse struct {
	Total         int                    `json:"total"`
	InherentBands map[types.RiskBand]int `json:"inherent_bands"`
	ResidualBands map[types.RiskBand]int `json:"residual_bands"`
	Reduction     trendResponse          `json:"reduction"`
}

type summaryResponse struct {
	OrganizationID types.OrganizationID       `json:"organization_id"`
	Frameworks     []frameworkSummaryResponse `json:"frameworks"`
	AttentionCount int                        `json:"attention_count"`
	Risks          riskSummaryResponse        `json:"risks"`
}

func toSummaryResponse(s *model.Summary) summaryResponse {
	resp := summaryResponse{
		OrganizationID: s.OrganizationID,
		Frameworks:     make([]frameworkSummaryResponse, len(s.Frameworks)),
		AttentionCount: s.AttentionCount,
		Risks: riskSummaryResponse{
			Total:         s.Risks.Total,
			InherentBands: s.Risks.InherentBands,
			ResidualBands: s.Risks.ResidualBands,
			Reduction: trendResponse{
				From:         s.Risks.Reduction.From,
				To:           s.Risks.Reduction.To,
				DeltaScore:   s.Risks.Reduction.DeltaScore,
				DeltaPercent: s.Risks.Reduction.DeltaPercent,
				Direction:    s.Risks.Reduction.Direction,
			},
		},
	}
	for i, f := range s.Frameworks {
		resp.Frameworks[i] = frameworkSummaryResponse{
			FrameworkID:       f.FrameworkID,
			ControlCount:      f.ControlCount,
			AssessedCount:     f.AssessedCount,
			AverageMaturity:   f.AverageMaturity,
			AverageTarget:     f.AverageTarget,
			CompliancePercent: f.CompliancePercent,
			ScoreClassCounts:  f.ScoreClassCounts,
		}
	}
	return resp
}
