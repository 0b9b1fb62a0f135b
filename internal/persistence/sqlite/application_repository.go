package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/hiring-portal/internal/analysis"
	"github.com/example/hiring-portal/internal/persistence"
)

const applicationColumns = "id, job_id, email, phone, full_name, resume_text, status, analysis, ai_score, created_at, updated_at"

// CreateApplication stores a new application for an existing job.
func (s *Storage) CreateApplication(ctx context.Context, application persistence.Application) error {
	analysisJSON, err := encodeAnalysis(application.Analysis)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO applications ("+applicationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		application.ID,
		application.JobID,
		application.Email,
		application.Phone,
		application.FullName,
		application.ResumeText,
		application.Status,
		analysisJSON,
		nullInt(application.AIScore),
		formatTimestamp(application.CreatedAt),
		formatTimestamp(application.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create application %s: %w", application.ID, mapError(err))
	}
	return nil
}

// GetApplication retrieves an application by ID.
func (s *Storage) GetApplication(ctx context.Context, id string) (persistence.Application, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+applicationColumns+" FROM applications WHERE id = ?", id)
	application, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Application{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Application{}, fmt.Errorf("sqlite: get application %s: %w", id, err)
	}
	return application, nil
}

// ListApplications returns applications in insertion order.
func (s *Storage) ListApplications(ctx context.Context, filter persistence.ApplicationFilter) ([]persistence.Application, error) {
	query := "SELECT " + applicationColumns + " FROM applications"
	var args []any
	if filter.JobID != "" {
		query += " WHERE job_id = ?"
		args = append(args, filter.JobID)
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list applications: %w", err)
	}
	defer rows.Close()

	applications := make([]persistence.Application, 0)
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan application: %w", err)
		}
		applications = append(applications, application)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list applications: %w", err)
	}
	return applications, nil
}

// UpdateApplication applies the non-nil patch fields.
func (s *Storage) UpdateApplication(ctx context.Context, id string, patch persistence.ApplicationPatch) (persistence.Application, error) {
	var (
		sets []string
		args []any
	)
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Analysis != nil {
		analysisJSON, err := encodeAnalysis(patch.Analysis)
		if err != nil {
			return persistence.Application{}, err
		}
		sets = append(sets, "analysis = ?")
		args = append(args, analysisJSON)
	}
	if patch.AIScore != nil {
		sets = append(sets, "ai_score = ?")
		args = append(args, *patch.AIScore)
	}
	if !patch.UpdatedAt.IsZero() {
		sets = append(sets, "updated_at = ?")
		args = append(args, formatTimestamp(patch.UpdatedAt))
	}

	var updated persistence.Application
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		if len(sets) > 0 {
			result, err := tx.ExecContext(ctx,
				"UPDATE applications SET "+strings.Join(sets, ", ")+" WHERE id = ?",
				append(args, id)...,
			)
			if err != nil {
				return mapError(err)
			}
			if affected, err := result.RowsAffected(); err == nil && affected == 0 {
				return persistence.ErrNotFound
			}
		}

		row := tx.QueryRowContext(ctx, "SELECT "+applicationColumns+" FROM applications WHERE id = ?", id)
		application, err := scanApplication(row)
		if err != nil {
			return mapError(err)
		}
		updated = application
		return nil
	})
	if errors.Is(err, persistence.ErrNotFound) {
		return persistence.Application{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Application{}, fmt.Errorf("sqlite: update application %s: %w", id, err)
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (persistence.Application, error) {
	var (
		application          persistence.Application
		analysisJSON         sql.NullString
		aiScore              sql.NullInt64
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&application.ID,
		&application.JobID,
		&application.Email,
		&application.Phone,
		&application.FullName,
		&application.ResumeText,
		&application.Status,
		&analysisJSON,
		&aiScore,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Application{}, err
	}

	if analysisJSON.Valid && analysisJSON.String != "" {
		var result analysis.Result
		if err := json.Unmarshal([]byte(analysisJSON.String), &result); err != nil {
			return persistence.Application{}, fmt.Errorf("decode analysis for %s: %w", application.ID, err)
		}
		application.Analysis = &result
	}
	if aiScore.Valid {
		score := int(aiScore.Int64)
		application.AIScore = &score
	}

	var err error
	if application.CreatedAt, err = parseTimestamp(createdAt, "applications.created_at"); err != nil {
		return persistence.Application{}, err
	}
	if application.UpdatedAt, err = parseTimestamp(updatedAt, "applications.updated_at"); err != nil {
		return persistence.Application{}, err
	}
	return application, nil
}

func encodeAnalysis(result *analysis.Result) (sql.NullString, error) {
	if result == nil {
		return sql.NullString{}, nil
	}
	body, err := json.Marshal(result)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("sqlite: encode analysis: %w", err)
	}
	return sql.NullString{String: string(body), Valid: true}, nil
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}
