package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/secmon-lab/aegis/pkg/usecase"
)

func TestSummaryUseCase_GetSummary(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestUseCases(t)

	putAssessment(t, uc, orgACME, "pr-aa-01", 1, 4, types.AssessmentStatusNaoConforme) // CRITICAL
	putAssessment(t, uc, orgACME, "de-cm-01", 3, 4, types.AssessmentStatusParcial)     // LOW
	putAssessment(t, uc, orgACME, "id-am-01", 0, 3, types.AssessmentStatusNaoAplicavel)
	putAssessment(t, uc, orgACME, "a-5-1", 4, 4, types.AssessmentStatusConforme)

	for _, in := range []usecase.RiskInput{
		{Name: "r1", InherentProbability: 5, InherentImpact: 4, ResidualProbability: ptr(types.Probability(2)), ResidualImpact: ptr(types.Impact(4))},
		{Name: "r2", InherentProbability: 2, InherentImpact: 2},
	} {
		_, err := uc.Risk.CreateRisk(ctx, orgACME, in)
		gt.NoError(t, err).Required()
	}

	summary, err := uc.Summary.GetSummary(ctx, orgACME)
	gt.NoError(t, err).Required()
	gt.Value(t, summary.OrganizationID).Equal(orgACME)
	gt.Value(t, summary.AttentionCount).Equal(1)
	gt.Array(t, summary.Frameworks).Length(2).Required()

	nist := summary.Frameworks[0]
	gt.Value(t, nist.FrameworkID).Equal(types.FrameworkNISTCSF)
	gt.Value(t, nist.ControlCount).Equal(3)
	gt.Value(t, nist.AssessedCount).Equal(3)
	// nao_aplicavel is excluded from averages and compliance
	gt.Value(t, nist.AverageMaturity).Equal(2.0)
	gt.Value(t, nist.AverageTarget).Equal(4.0)
	gt.Value(t, nist.CompliancePercent).Equal(25.0)
	gt.Value(t, nist.ScoreClassCounts[types.RiskScoreCritical]).Equal(1)
	gt.Value(t, nist.ScoreClassCounts[types.RiskScoreLow]).Equal(2)
	gt.Value(t, nist.ScoreClassCounts[types.RiskScoreHigh]).Equal(0)

	iso := summary.Frameworks[1]
	gt.Value(t, iso.CompliancePercent).Equal(100.0)

	risks := summary.Risks
	gt.Value(t, risks.Total).Equal(2)
	gt.Value(t, risks.InherentBands[types.RiskBandCritical]).Equal(1)
	gt.Value(t, risks.InherentBands[types.RiskBandVeryLow]).Equal(1)
	gt.Value(t, risks.ResidualBands[types.RiskBandLow]).Equal(1)
	// inherent 20 + 4 = 24, effective 8 + 4 = 12
	gt.Value(t, risks.Reduction.From).Equal(24.0)
	gt.Value(t, risks.Reduction.To).Equal(12.0)
	gt.Value(t, risks.Reduction.DeltaPercent).Equal(-50.0)
	gt.Value(t, risks.Reduction.Direction).Equal(model.TrendDown)
}

func TestSummaryUseCase_Empty(t *testing.T) {
	uc, _ := newTestUseCases(t)

	summary, err := uc.Summary.GetSummary(context.Background(), orgBeta)
	gt.NoError(t, err).Required()
	gt.Value(t, summary.AttentionCount).Equal(0)
	gt.Value(t, summary.Risks.Total).Equal(0)
	gt.Value(t, summary.Risks.Reduction.Direction).Equal(model.TrendFlat)
	gt.Value(t, summary.Frameworks[0].CompliancePercent).Equal(0.0)
}
