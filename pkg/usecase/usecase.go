package usecase

import (
	"time"

	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/model"
)

const (
	// DefaultMaxEvidenceSize is the upload limit for one evidence file
	DefaultMaxEvidenceSize int64 = 20 << 20

	// DefaultConcurrency bounds parallel repository writes in bulk operations
	DefaultConcurrency = 8
)

type UseCases struct {
	repo            interfaces.Repository
	orgs            *model.OrganizationRegistry
	catalog         *model.Catalog
	blob            interfaces.BlobStorage
	notifier        interfaces.AttentionNotifier
	maxEvidenceSize int64
	concurrency     int
	now             func() time.Time

	Control    *ControlUseCase
	Assessment *AssessmentUseCase
	Risk       *RiskUseCase
	ActionPlan *ActionPlanUseCase
	Evidence   *EvidenceUseCase
	Summary    *SummaryUseCase
	Attention  *AttentionUseCase
}

type Option func(*UseCases)

// WithBlobStorage enables the evidence vault
func WithBlobStorage(blob interfaces.BlobStorage) Option {
	return func(uc *UseCases) {
		uc.blob = blob
	}
}

// WithNotifier enables attention alerts
func WithNotifier(notifier interfaces.AttentionNotifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func WithMaxEvidenceSize(size int64) Option {
	return func(uc *UseCases) {
		if size > 0 {
			uc.maxEvidenceSize = size
		}
	}
}

func WithConcurrency(n int) Option {
	return func(uc *UseCases) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

// WithClock replaces the time source used for due dates
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, orgs *model.OrganizationRegistry, catalog *model.Catalog, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:            repo,
		orgs:            orgs,
		catalog:         catalog,
		maxEvidenceSize: DefaultMaxEvidenceSize,
		concurrency:     DefaultConcurrency,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Control = &ControlUseCase{repo: repo, orgs: orgs, catalog: catalog}
	uc.Assessment = &AssessmentUseCase{repo: repo, orgs: orgs, catalog: catalog, notifier: uc.notifier}
	uc.Risk = &RiskUseCase{repo: repo, orgs: orgs}
	uc.ActionPlan = &ActionPlanUseCase{repo: repo, orgs: orgs, catalog: catalog, control: uc.Control, concurrency: uc.concurrency, now: uc.now}
	uc.Evidence = &EvidenceUseCase{repo: repo, orgs: orgs, catalog: catalog, blob: uc.blob, maxSize: uc.maxEvidenceSize}
	uc.Summary = &SummaryUseCase{repo: repo, orgs: orgs, catalog: catalog}
	uc.Attention = &AttentionUseCase{orgs: orgs, control: uc.Control, notifier: uc.notifier}

	return uc
}

// Organizations returns the registered organizations in declaration order
func (uc *UseCases) Organizations() []*model.Organization {
	return uc.orgs.List()
}

// Catalog returns the control catalog
func (uc *UseCases) Catalog() *model.Catalog {
	return uc.catalog
}

// MaxEvidenceSize returns the evidence upload limit in bytes
func (uc *UseCases) MaxEvidenceSize() int64 {
	return uc.maxEvidenceSize
}
