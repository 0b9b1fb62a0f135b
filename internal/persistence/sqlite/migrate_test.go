package sqlite

import (
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrations(t *testing.T) {
	t.Parallel()

	t.Run("sorts by version", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"migrations/002_add_index.sql":      {Data: []byte("CREATE INDEX b ON t(b)")},
			"migrations/001_initial_schema.sql": {Data: []byte("CREATE TABLE t (b TEXT)")},
		}
		migrations, err := loadMigrations(fsys)
		if err != nil {
			t.Fatalf("loadMigrations failed: %v", err)
		}
		if len(migrations) != 2 || migrations[0].Version != "001" || migrations[1].Description != "add_index" {
			t.Fatalf("unexpected migrations: %#v", migrations)
		}
	})

	t.Run("rejects malformed names", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{"migrations/initial.sql": {Data: []byte("SELECT 1")}}
		if _, err := loadMigrations(fsys); err == nil || !strings.Contains(err.Error(), "initial.sql") {
			t.Fatalf("expected naming error, got %v", err)
		}
	})

	t.Run("rejects duplicate versions", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"migrations/001_a.sql": {Data: []byte("SELECT 1")},
			"migrations/001_b.sql": {Data: []byte("SELECT 2")},
		}
		if _, err := loadMigrations(fsys); err == nil {
			t.Fatalf("expected duplicate version error")
		}
	})

	t.Run("embedded migrations are valid", func(t *testing.T) {
		t.Parallel()

		migrations, err := loadMigrations(migrationFiles)
		if err != nil {
			t.Fatalf("loadMigrations failed: %v", err)
		}
		if len(migrations) == 0 {
			t.Fatalf("expected at least one embedded migration")
		}
	})
}

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	got := splitStatements("CREATE TABLE a (x INT);\n\n  CREATE INDEX i ON a(x) ;\n")
	want := []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a(x)"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if firstLine("SELECT 1\nFROM t") != "SELECT 1" {
		t.Fatalf("unexpected first line")
	}
}
