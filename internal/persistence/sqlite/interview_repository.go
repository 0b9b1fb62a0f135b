package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/hiring-portal/internal/persistence"
)

const interviewColumns = "id, application_id, interviewer_name, interviewer_email, candidate_name, candidate_email, candidate_phone, " +
	"start_at, end_at, duration_minutes, type, location, meeting_link, status, notes, created_at, updated_at"

// CreateInterview stores a new interview unless it double-books the interviewer.
func (s *Storage) CreateInterview(ctx context.Context, interview persistence.Interview) error {
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		if err := ensureNoOverlap(ctx, tx, interview); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO interviews ("+interviewColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			interview.ID,
			interview.ApplicationID,
			interview.InterviewerName,
			persistence.InterviewerKey(interview.InterviewerEmail),
			interview.CandidateName,
			interview.CandidateEmail,
			interview.CandidatePhone,
			interview.Start.UnixMilli(),
			interview.End.UnixMilli(),
			interview.DurationMinutes,
			interview.Type,
			nullString(interview.Location),
			nullString(interview.MeetingLink),
			interview.Status,
			interview.Notes,
			formatTimestamp(interview.CreatedAt),
			formatTimestamp(interview.UpdatedAt),
		)
		return mapError(err)
	})
	if err != nil {
		return fmt.Errorf("sqlite: create interview %s: %w", interview.ID, err)
	}
	return nil
}

// UpdateInterview replaces an existing interview unless the new window double-books the interviewer.
// The creation timestamp is never changed.
func (s *Storage) UpdateInterview(ctx context.Context, interview persistence.Interview) error {
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM interviews WHERE id = ?", interview.ID).Scan(&exists); err != nil {
			return mapError(err)
		}
		if err := ensureNoOverlap(ctx, tx, interview); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE interviews SET
				application_id = ?, interviewer_name = ?, interviewer_email = ?,
				candidate_name = ?, candidate_email = ?, candidate_phone = ?,
				start_at = ?, end_at = ?, duration_minutes = ?, type = ?,
				location = ?, meeting_link = ?, status = ?, notes = ?, updated_at = ?
			WHERE id = ?`,
			interview.ApplicationID,
			interview.InterviewerName,
			persistence.InterviewerKey(interview.InterviewerEmail),
			interview.CandidateName,
			interview.CandidateEmail,
			interview.CandidatePhone,
			interview.Start.UnixMilli(),
			interview.End.UnixMilli(),
			interview.DurationMinutes,
			interview.Type,
			nullString(interview.Location),
			nullString(interview.MeetingLink),
			interview.Status,
			interview.Notes,
			formatTimestamp(interview.UpdatedAt),
			interview.ID,
		)
		return mapError(err)
	})
	if errors.Is(err, persistence.ErrNotFound) {
		return persistence.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("sqlite: update interview %s: %w", interview.ID, err)
	}
	return nil
}

// GetInterview retrieves an interview by ID.
func (s *Storage) GetInterview(ctx context.Context, id string) (persistence.Interview, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+interviewColumns+" FROM interviews WHERE id = ?", id)
	interview, err := scanInterview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Interview{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Interview{}, fmt.Errorf("sqlite: get interview %s: %w", id, err)
	}
	return interview, nil
}

// ListInterviews returns interviews matching the filter ordered by start time.
func (s *Storage) ListInterviews(ctx context.Context, filter persistence.InterviewFilter) ([]persistence.Interview, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.ApplicationID != "" {
		conditions = append(conditions, "application_id = ?")
		args = append(args, filter.ApplicationID)
	}
	if filter.InterviewerEmail != "" {
		conditions = append(conditions, "interviewer_email = ?")
		args = append(args, persistence.InterviewerKey(filter.InterviewerEmail))
	}
	if filter.ExcludeCancelled {
		conditions = append(conditions, "status <> ?")
		args = append(args, persistence.InterviewStatusCancelled)
	}
	if filter.StartsAfter != nil {
		conditions = append(conditions, "start_at >= ?")
		args = append(args, filter.StartsAfter.UnixMilli())
	}
	if filter.StartsBefore != nil {
		conditions = append(conditions, "start_at <= ?")
		args = append(args, filter.StartsBefore.UnixMilli())
	}

	query := "SELECT " + interviewColumns + " FROM interviews"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list interviews: %w", err)
	}
	defer rows.Close()

	interviews := make([]persistence.Interview, 0)
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan interview: %w", err)
		}
		interviews = append(interviews, interview)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list interviews: %w", err)
	}
	return interviews, nil
}

// ensureNoOverlap runs inside the write transaction so the check and the write are atomic.
func ensureNoOverlap(ctx context.Context, tx *sql.Tx, candidate persistence.Interview) error {
	if candidate.Cancelled() {
		return nil
	}

	var conflictID string
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM interviews
		WHERE interviewer_email = ?
		  AND id <> ?
		  AND status <> ?
		  AND start_at < ?
		  AND end_at > ?
		LIMIT 1`,
		persistence.InterviewerKey(candidate.InterviewerEmail),
		candidate.ID,
		persistence.InterviewStatusCancelled,
		candidate.End.UnixMilli(),
		candidate.Start.UnixMilli(),
	).Scan(&conflictID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	return fmt.Errorf("interview %s overlaps %s: %w", candidate.ID, conflictID, persistence.ErrOverlap)
}

func scanInterview(row rowScanner) (persistence.Interview, error) {
	var (
		interview            persistence.Interview
		startAt, endAt       int64
		location, link       sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&interview.ID,
		&interview.ApplicationID,
		&interview.InterviewerName,
		&interview.InterviewerEmail,
		&interview.CandidateName,
		&interview.CandidateEmail,
		&interview.CandidatePhone,
		&startAt,
		&endAt,
		&interview.DurationMinutes,
		&interview.Type,
		&location,
		&link,
		&interview.Status,
		&interview.Notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Interview{}, err
	}

	interview.Start = time.UnixMilli(startAt).UTC()
	interview.End = time.UnixMilli(endAt).UTC()
	interview.Location = stringPtr(location)
	interview.MeetingLink = stringPtr(link)

	var err error
	if interview.CreatedAt, err = parseTimestamp(createdAt, "interviews.created_at"); err != nil {
		return persistence.Interview{}, err
	}
	if interview.UpdatedAt, err = parseTimestamp(updatedAt, "interviews.updated_at"); err != nil {
		return persistence.Interview{}, err
	}
	return interview, nil
}
