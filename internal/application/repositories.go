package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/hiring-portal/internal/persistence"
)

// JobRepository exposes job lookups.
type JobRepository interface {
	GetJob(ctx context.Context, id string) (Job, error)
}

// ApplicationRepository captures the application store interactions the services need.
// ListApplications returns applications in insertion order; an empty jobID lists every job.
type ApplicationRepository interface {
	GetApplication(ctx context.Context, id string) (Application, error)
	ListApplications(ctx context.Context, jobID string) ([]Application, error)
	UpdateApplication(ctx context.Context, id string, patch ApplicationPatch) (Application, error)
}

// InterviewRepository captures the interview store interactions. Create and Update must reject
// writes that overlap another non-cancelled interview of the same interviewer.
type InterviewRepository interface {
	CreateInterview(ctx context.Context, interview Interview) (Interview, error)
	UpdateInterview(ctx context.Context, interview Interview) (Interview, error)
	GetInterview(ctx context.Context, id string) (Interview, error)
	ListInterviews(ctx context.Context, filter InterviewFilter) ([]Interview, error)
}

// InterviewFilter narrows queries issued to the interview repository.
type InterviewFilter struct {
	ApplicationID    string
	InterviewerEmail string
	StartsAfter      *time.Time
	StartsBefore     *time.Time
	ExcludeCancelled bool
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, persistence.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, persistence.ErrOverlap), errors.Is(err, persistence.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
