package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

func TestControlUseCase_ListScoredControls(t *testing.T) {
	ctx := context.Background()

	t.Run("scores adopted controls highest risk first", func(t *testing.T) {
		uc, _ := newTestUseCases(t)
		putAssessment(t, uc, orgACME, "pr-aa-01", 1, 4, types.AssessmentStatusNaoConforme) // 3*3 = 9
		putAssessment(t, uc, orgACME, "de-cm-01", 2, 4, types.AssessmentStatusParcial)     // 2*2 = 4
		putAssessment(t, uc, orgACME, "a-5-1", 4, 4, types.AssessmentStatusConforme)       // 0

		scored, err := uc.Control.ListScoredControls(ctx, orgACME, "")
		gt.NoError(t, err).Required()
		// bcb-cmn is not adopted by acme
		gt.Array(t, scored).Length(4).Required()

		gt.Value(t, scored[0].Control.ID).Equal(types.ControlID("pr-aa-01"))
		gt.Value(t, scored[0].Score.Score).Equal(9)
		gt.Value(t, scored[0].Score.Classification.Level).Equal(types.RiskScoreCritical)
		gt.Value(t, scored[1].Control.ID).Equal(types.ControlID("de-cm-01"))
		gt.Value(t, scored[1].Score.Classification.Level).Equal(types.RiskScoreMedium)

		// zero scores are ordered by code: A.5.1 before ID.AM-01
		gt.Value(t, scored[2].Control.Code).Equal("A.5.1")
		gt.Value(t, scored[3].Control.Code).Equal("ID.AM-01")
		gt.Value(t, scored[3].Assessment).Nil()
	})

	t.Run("filters by framework", func(t *testing.T) {
		uc, _ := newTestUseCases(t)

		scored, err := uc.Control.ListScoredControls(ctx, orgACME, types.FrameworkISO27001)
		gt.NoError(t, err).Required()
		gt.Array(t, scored).Length(1).Required()
		gt.Value(t, scored[0].Control.ID).Equal(types.ControlID("a-5-1"))
	})

	t.Run("rejects framework not adopted by organization", func(t *testing.T) {
		uc, _ := newTestUseCases(t)

		_, err := uc.Control.ListScoredControls(ctx, orgACME, types.FrameworkBCBCMN)
		gt.Error(t, err).Is(model.ErrFrameworkNotFound)

		_, err = uc.Control.ListScoredControls(ctx, orgACME, "unknown")
		gt.Error(t, err).Is(model.ErrFrameworkNotFound)
	})

	t.Run("unknown organization", func(t *testing.T) {
		uc, _ := newTestUseCases(t)

		_, err := uc.Control.ListScoredControls(ctx, "nobody", "")
		gt.Error(t, err).Is(model.ErrOrganizationNotFound)
	})

	t.Run("assessments are isolated per organization", func(t *testing.T) {
		uc, _ := newTestUseCases(t)
		putAssessment(t, uc, orgACME, "pr-aa-01", 0, 5, types.AssessmentStatusNaoConforme)

		scored, err := uc.Control.ListScoredControls(ctx, orgBeta, "")
		gt.NoError(t, err).Required()
		for _, sc := range scored {
			gt.Value(t, sc.Score.Score).Equal(0)
		}
	})
}

func TestControlUseCase_ListAttention(t *testing.T) {
	ctx := context.Background()
	uc, _ := newTestUseCases(t)

	putAssessment(t, uc, orgACME, "pr-aa-01", 1, 4, types.AssessmentStatusNaoConforme) // 9 CRITICAL
	putAssessment(t, uc, orgACME, "de-cm-01", 1, 4, types.AssessmentStatusParcial)     // 6 HIGH
	putAssessment(t, uc, orgACME, "id-am-01", 0, 5, types.AssessmentStatusNaoAplicavel)
	putAssessment(t, uc, orgACME, "a-5-1", 2, 4, types.AssessmentStatusParcial) // 2 LOW

	attention, err := uc.Control.ListAttention(ctx, orgACME)
	gt.NoError(t, err).Required()
	gt.Array(t, attention).Length(2).Required()
	gt.Value(t, attention[0].Score.Classification.Level).Equal(types.RiskScoreCritical)
	gt.Value(t, attention[1].Score.Classification.Level).Equal(types.RiskScoreHigh)
}
