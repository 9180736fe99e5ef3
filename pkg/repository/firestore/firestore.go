package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/types"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = interfaces.ErrNotFound

type Firestore struct {
	client     *firestore.Client
	root       *collectionRoot
	assessment *assessmentRepository
	risk       *riskRepository
	actionPlan *actionPlanRepository
	evidence   *evidenceRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes the top-level organizations collection, e.g. for test isolation
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.root.prefix = prefix
	}
}

// collectionRoot resolves organization scoped collections:
// organizations/{orgID}/{assessments|risks|action_plans|evidence|counters}
type collectionRoot struct {
	client *firestore.Client
	prefix string
}

func (c *collectionRoot) organizations() string {
	if c.prefix != "" {
		return c.prefix + "_organizations"
	}
	return "organizations"
}

func (c *collectionRoot) collection(orgID types.OrganizationID, name string) *firestore.CollectionRef {
	return c.client.Collection(c.organizations()).Doc(orgID.String()).Collection(name)
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var (
		client *firestore.Client
		err    error
	)
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	root := &collectionRoot{client: client}
	f := &Firestore{
		client:     client,
		root:       root,
		assessment: &assessmentRepository{root: root},
		risk:       &riskRepository{root: root},
		actionPlan: &actionPlanRepository{root: root},
		evidence:   &evidenceRepository{root: root},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Assessment() interfaces.AssessmentRepository {
	return f.assessment
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) ActionPlan() interfaces.ActionPlanRepository {
	return f.actionPlan
}

func (f *Firestore) Evidence() interfaces.EvidenceRepository {
	return f.evidence
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
