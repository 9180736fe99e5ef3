package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
	"github.com/secmon-lab/aegis/pkg/domain/types"
	"github.com/secmon-lab/aegis/pkg/repository/firestore"
	"github.com/secmon-lab/aegis/pkg/repository/memory"
)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	ctx := context.Background()
	repo, err := firestore.New(ctx, projectID, databaseID,
		firestore.WithCollectionPrefix(fmt.Sprintf("test_%d", time.Now().UnixNano())))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

// uniqueOrg isolates test data of each subtest, so that per organization counters start at 1
func uniqueOrg() types.OrganizationID {
	return types.OrganizationID(fmt.Sprintf("org-%d", time.Now().UnixNano()))
}

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}
