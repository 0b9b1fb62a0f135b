package sqlite_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/example/hiring-portal/internal/persistence/sqlite"
	"github.com/example/hiring-portal/internal/testfixtures"
)

func TestStorageContract(t *testing.T) {
	t.Parallel()

	testfixtures.RunStorageContract(t, func(t *testing.T) testfixtures.Stores {
		return testfixtures.NewSQLiteHarness(t).Stores()
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	if err := harness.Storage.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	applied, err := harness.Storage.AppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("AppliedMigrations failed: %v", err)
	}
	if !reflect.DeepEqual(applied, []string{"001"}) {
		t.Fatalf("unexpected applied migrations: %v", applied)
	}
	if err := harness.Storage.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	storage, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := storage.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	job := testfixtures.NewJobFixture(testfixtures.WithJobID("job-keep")).Persistence()
	if err := storage.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	if err := storage.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	if err := reopened.Migrate(ctx); err != nil {
		t.Fatalf("Migrate after reopen failed: %v", err)
	}
	if _, err := reopened.GetJob(ctx, "job-keep"); err != nil {
		t.Fatalf("expected job to survive reopen: %v", err)
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	t.Parallel()

	if _, err := sqlite.Open("  "); err == nil {
		t.Fatalf("expected error for blank dsn")
	}
}
