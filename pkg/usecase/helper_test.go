package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aegis/pkg/domain/model"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/secmon-lab/aegis/pkg/repository/memory"
	"github.com/secmon-lab/aegis/pkg/usecase"
)

const (
	orgACME types.OrganizationID = "acme"
	orgBeta types.OrganizationID = "beta"
)

func newTestCatalog(t *testing.T) *model.Catalog {
	t.Helper()

	catalog, err := model.NewCatalog(
		[]*model.Framework{
			{ID: types.FrameworkNISTCSF, Name: "NIST CSF 2.0"},
			{ID: types.FrameworkISO27001, Name: "ISO/IEC 27001:2022"},
			{ID: types.FrameworkBCBCMN, Name: "BCB CMN 4.893"},
		},
		[]*model.Control{
			{ID: "pr-aa-01", Framework: types.FrameworkNISTCSF, Code: "PR.AA-01", Name: "Identities and credentials are managed", Weight: 3},
			{ID: "de-cm-01", Framework: types.FrameworkNISTCSF, Code: "DE.CM-01", Name: "Networks are monitored", Weight: 2},
			{ID: "id-am-01", Framework: types.FrameworkNISTCSF, Code: "ID.AM-01", Name: "Hardware inventory is maintained"},
			{ID: "a-5-1", Framework: types.FrameworkISO27001, Code: "A.5.1", Name: "Policies for information security", Weight: 1},
			{ID: "cmn-art-3", Framework: types.FrameworkBCBCMN, Code: "Art. 3", Name: "Cybersecurity policy", Weight: 2},
		},
	)
	gt.NoError(t, err).Required()
	return catalog
}

func newTestRegistry() *model.OrganizationRegistry {
	registry := model.NewOrganizationRegistry()
	registry.Register(&model.Organization{
		ID:           orgACME,
		Name:         "ACME",
		Frameworks:   []types.FrameworkID{types.FrameworkNISTCSF, types.FrameworkISO27001},
		SlackChannel: "C-ACME",
	})
	registry.Register(&model.Organization{
		ID:         orgBeta,
		Name:       "Beta",
		Frameworks: []types.FrameworkID{types.FrameworkNISTCSF},
	})
	return registry
}

func newTestUseCases(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	return usecase.New(repo, newTestRegistry(), newTestCatalog(t), opts...), repo
}

func putAssessment(t *testing.T, uc *usecase.UseCases, orgID types.OrganizationID, controlID types.ControlID, current, target types.MaturityLevel, status types.AssessmentStatus) *model.ScoredControl {
	t.Helper()
	scored, err := uc.Assessment.PutAssessment(context.Background(), orgID, controlID, usecase.AssessmentInput{
		MaturityLevel:  current,
		TargetMaturity: target,
		Status:         status,
	})
	gt.NoError(t, err).Required()
	return scored
}

type notification struct {
	org      *model.Organization
	controls []*model.ScoredControl
}

type mockNotifier struct {
	mu    sync.Mutex
	calls []notification
	ch    chan notification
	err   error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{ch: make(chan notification, 16)}
}

func (m *mockNotifier) NotifyAttention(ctx context.Context, org *model.Organization, controls []*model.ScoredControl) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	n := notification{org: org, controls: controls}
	m.calls = append(m.calls, n)
	m.ch <- n
	return nil
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
