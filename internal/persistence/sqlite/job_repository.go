package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/hiring-portal/internal/persistence"
)

// CreateJob stores a new job.
func (s *Storage) CreateJob(ctx context.Context, job persistence.Job) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO jobs (id, title, requirements, created_at) VALUES (?, ?, ?, ?)",
		job.ID, job.Title, job.Requirements, formatTimestamp(job.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create job %s: %w", job.ID, mapError(err))
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *Storage) GetJob(ctx context.Context, id string) (persistence.Job, error) {
	var (
		job       persistence.Job
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, requirements, created_at FROM jobs WHERE id = ?", id,
	).Scan(&job.ID, &job.Title, &job.Requirements, &createdAt)
	if err == sql.ErrNoRows {
		return persistence.Job{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Job{}, fmt.Errorf("sqlite: get job %s: %w", id, err)
	}

	if job.CreatedAt, err = parseTimestamp(createdAt, "jobs.created_at"); err != nil {
		return persistence.Job{}, err
	}
	return job, nil
}
