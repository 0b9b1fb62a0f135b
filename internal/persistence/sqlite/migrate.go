package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationFilePattern matches {version}_{description}.sql.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_-]+)\.sql$`)

type migration struct {
	Version     string
	Description string
	SQL         string
}

// Migrate applies every embedded migration that is not yet recorded in schema_migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	const versionTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL,
			execution_time_ms INTEGER NOT NULL
		)`
	if _, err := s.db.ExecContext(ctx, versionTable); err != nil {
		return fmt.Errorf("sqlite: create schema_migrations: %w", err)
	}

	migrations, err := loadMigrations(migrationFiles)
	if err != nil {
		return err
	}

	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("sqlite: migration %s_%s: %w", m.Version, m.Description, err)
		}
	}
	return nil
}

// AppliedMigrations returns the recorded migration versions in ascending order.
func (s *Storage) AppliedMigrations(ctx context.Context) ([]string, error) {
	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(applied))
	for version := range applied {
		versions = append(versions, version)
	}
	sort.Strings(versions)
	return versions, nil
}

func (s *Storage) appliedVersions(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("sqlite: scan applied migration: %w", err)
		}
		applied[version] = struct{}{}
	}
	return applied, rows.Err()
}

func (s *Storage) applyMigration(ctx context.Context, m migration) error {
	started := time.Now()
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range splitStatements(m.SQL) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("execute %q: %w", firstLine(stmt), err)
			}
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, description, applied_at, execution_time_ms) VALUES (?, ?, ?, ?)",
			m.Version, m.Description, formatTimestamp(time.Now()), time.Since(started).Milliseconds(),
		)
		return err
	})
}

func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("sqlite: read migrations: %w", err)
	}

	seen := make(map[string]string)
	migrations := make([]migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := migrationFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			return nil, fmt.Errorf("sqlite: migration file %q does not follow {version}_{description}.sql", entry.Name())
		}
		if other, ok := seen[match[1]]; ok {
			return nil, fmt.Errorf("sqlite: migration version %s used by %s and %s", match[1], other, entry.Name())
		}
		seen[match[1]] = entry.Name()

		body, err := fs.ReadFile(fsys, "migrations/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("sqlite: read %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, migration{Version: match[1], Description: match[2], SQL: string(body)})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// splitStatements splits a migration on semicolons. Migrations must not contain semicolons
// inside string literals or triggers.
func splitStatements(body string) []string {
	parts := strings.Split(body, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func firstLine(stmt string) string {
	if idx := strings.IndexByte(stmt, '\n'); idx >= 0 {
		return stmt[:idx]
	}
	return stmt
}
