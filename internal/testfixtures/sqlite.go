package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/hiring-portal/internal/persistence"
	"github.com/example/hiring-portal/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary, migrated SQLite file.
type SQLiteHarness struct {
	Storage      *sqlite.Storage
	Jobs         persistence.JobRepository
	Applications persistence.ApplicationRepository
	Interviews   persistence.InterviewRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// Stores exposes the harness repositories for RunStorageContract.
func (h *SQLiteHarness) Stores() Stores {
	return Stores{Jobs: h.Jobs, Applications: h.Applications, Interviews: h.Interviews}
}

// NewSQLiteHarness opens and migrates a SQLite database under tb.TempDir. The harness is
// closed automatically when the test finishes.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "hiring.db")

	storage, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:      storage,
		Jobs:         storage,
		Applications: storage,
		Interviews:   storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
