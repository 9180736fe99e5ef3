package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

func ptr[T any](v T) *T {
	return &v
}

func newTestCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	catalog, err := model.NewCatalog(
		[]*model.Framework{
			{ID: types.FrameworkNISTCSF, Name: "NIST CSF 2.0"},
			{ID: types.FrameworkISO27001, Name: "ISO/IEC 27001:2022"},
		},
		[]*model.Control{
			{ID: "pr-aa-01", Framework: types.FrameworkNISTCSF, Code: "PR.AA-01", Name: "Identities are managed", Weight: 3},
			{ID: "de-cm-01", Framework: types.FrameworkNISTCSF, Code: "DE.CM-01", Name: "Networks are monitored"},
			{ID: "a-5-15", Framework: types.FrameworkISO27001, Code: "A.5.15", Name: "Access control", Weight: 2},
		},
	)
	gt.NoError(t, err).Required()
	return catalog
}

func TestOrganizationRegistry(t *testing.T) {
	registry := model.NewOrganizationRegistry()
	registry.Register(&model.Organization{ID: "beta", Name: "Beta"})
	registry.Register(&model.Organization{ID: "alpha", Name: "Alpha"})
	registry.Register(&model.Organization{ID: "beta", Name: "Beta Renamed"})

	orgs := registry.List()
	gt.Array(t, orgs).Length(2).Required()
	gt.Value(t, orgs[0].ID).Equal(types.OrganizationID("beta"))
	gt.Value(t, orgs[0].Name).Equal("Beta Renamed")
	gt.Value(t, orgs[1].ID).Equal(types.OrganizationID("alpha"))

	_, err := registry.Get("missing")
	gt.Error(t, err).Is(model.ErrOrganizationNotFound)
}

func TestCatalog(t *testing.T) {
	catalog := newTestCatalog(t)

	t.Run("controls filtered by framework keep declaration order", func(t *testing.T) {
		controls := catalog.Controls(types.FrameworkNISTCSF)
		gt.Array(t, controls).Length(2).Required()
		gt.Value(t, controls[0].ID).Equal(types.ControlID("pr-aa-01"))
		gt.Value(t, controls[1].ID).Equal(types.ControlID("de-cm-01"))
		gt.Array(t, catalog.Controls()).Length(3)
	})

	t.Run("organization control requires adopted framework", func(t *testing.T) {
		org := &model.Organization{ID: "acme", Frameworks: []types.FrameworkID{types.FrameworkNISTCSF}}

		ctrl, err := catalog.OrganizationControl(org, "pr-aa-01")
		gt.NoError(t, err).Required()
		gt.Value(t, ctrl.Code).Equal("PR.AA-01")

		_, err = catalog.OrganizationControl(org, "a-5-15")
		gt.Error(t, err).Is(model.ErrControlNotFound)

		_, err = catalog.OrganizationControl(org, "unknown")
		gt.Error(t, err).Is(model.ErrControlNotFound)
	})

	t.Run("rejects control with unknown framework", func(t *testing.T) {
		_, err := model.NewCatalog(nil, []*model.Control{{ID: "x-1", Framework: "missing", Code: "X", Name: "X"}})
		gt.Error(t, err).Is(model.ErrFrameworkNotFound)
	})

	t.Run("rejects weight out of range", func(t *testing.T) {
		_, err := model.NewCatalog(
			[]*model.Framework{{ID: "f", Name: "F"}},
			[]*model.Control{{ID: "c-1", Framework: "f", Code: "C", Name: "C", Weight: 4}},
		)
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects duplicate control", func(t *testing.T) {
		_, err := model.NewCatalog(
			[]*model.Framework{{ID: "f", Name: "F"}},
			[]*model.Control{
				{ID: "c-1", Framework: "f", Code: "C", Name: "C"},
				{ID: "c-1", Framework: "f", Code: "C2", Name: "C2"},
			},
		)
		gt.Value(t, err).NotNil()
	})
}

func TestScoredControl(t *testing.T) {
	catalog := newTestCatalog(t)
	critical, err := catalog.Control("pr-aa-01")
	gt.NoError(t, err).Required()
	low, err := catalog.Control("de-cm-01")
	gt.NoError(t, err).Required()
	medium, err := catalog.Control("a-5-15")
	gt.NoError(t, err).Required()

	controls := []*model.ScoredControl{
		model.NewScoredControl(low, nil),
		model.NewScoredControl(medium, &model.Assessment{ControlID: "a-5-15", MaturityLevel: 2, TargetMaturity: 4, Status: types.AssessmentStatusParcial}),
		model.NewScoredControl(critical, &model.Assessment{ControlID: "pr-aa-01", MaturityLevel: 1, TargetMaturity: 4, Status: types.AssessmentStatusNaoConforme}),
	}
	model.SortScoredControls(controls)

	gt.Value(t, controls[0].Control.ID).Equal(types.ControlID("pr-aa-01"))
	gt.Value(t, controls[0].Score.Classification.Level).Equal(types.RiskScoreCritical)
	gt.Value(t, controls[1].Control.ID).Equal(types.ControlID("a-5-15"))
	gt.Value(t, controls[1].Score.Score).Equal(4)
	gt.Value(t, controls[2].Control.ID).Equal(types.ControlID("de-cm-01"))
	gt.Value(t, controls[2].Score.Score).Equal(0)
}

func TestRisk_Validate(t *testing.T) {
	tests := []struct {
		name    string
		risk    model.Risk
		wantErr bool
	}{
		{"inherent only", model.Risk{Name: "Ransomware", InherentProbability: 4, InherentImpact: 5}, false},
		{"with residual", model.Risk{Name: "Ransomware", InherentProbability: 4, InherentImpact: 5, ResidualProbability: ptr(types.Probability(2)), ResidualImpact: ptr(types.Impact(5))}, false},
		{"missing name", model.Risk{InherentProbability: 1, InherentImpact: 1}, true},
		{"probability zero", model.Risk{Name: "R", InherentProbability: 0, InherentImpact: 1}, true},
		{"impact above range", model.Risk{Name: "R", InherentProbability: 1, InherentImpact: 6}, true},
		{"residual half set", model.Risk{Name: "R", InherentProbability: 3, InherentImpact: 3, ResidualProbability: ptr(types.Probability(1))}, true},
		{"residual above inherent", model.Risk{Name: "R", InherentProbability: 2, InherentImpact: 2, ResidualProbability: ptr(types.Probability(3)), ResidualImpact: ptr(types.Impact(3))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.risk.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Risk.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRisk_Levels(t *testing.T) {
	r := &model.Risk{Name: "Fraud", InherentProbability: 4, InherentImpact: 5}
	gt.Value(t, r.InherentLevel().Level).Equal(20)
	gt.Value(t, r.InherentLevel().Band).Equal(types.RiskBandCritical)
	gt.Value(t, r.ResidualLevel()).Nil()
	gt.Value(t, r.EffectiveLevel().Level).Equal(20)

	r.ResidualProbability = ptr(types.Probability(2))
	r.ResidualImpact = ptr(types.Impact(3))
	gt.Value(t, r.ResidualLevel().Level).Equal(6)
	gt.Value(t, r.EffectiveLevel().Band).Equal(types.RiskBandLow)

	copied := r.Copy()
	*copied.ResidualProbability = 1
	gt.Value(t, *r.ResidualProbability).Equal(types.Probability(2))
}

func TestComputeTrend(t *testing.T) {
	down := model.ComputeTrend(40, 30)
	gt.Value(t, down.Direction).Equal(model.TrendDown)
	gt.Value(t, down.DeltaScore).Equal(-10.0)
	gt.Value(t, down.DeltaPercent).Equal(-25.0)

	flat := model.ComputeTrend(0, 0)
	gt.Value(t, flat.Direction).Equal(model.TrendFlat)
	gt.Value(t, flat.DeltaPercent).Equal(0.0)

	up := model.ComputeTrend(3, 4)
	gt.Value(t, up.Direction).Equal(model.TrendUp)
	gt.Value(t, up.DeltaPercent).Equal(33.33)
}

func TestEvidenceObjectPath(t *testing.T) {
	p := model.EvidenceObjectPath("acme", "pr-aa-01", "123", "../../policy.pdf")
	gt.Value(t, p).Equal("acme/pr-aa-01/123/policy.pdf")
}
