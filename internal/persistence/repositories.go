package persistence

import (
	"context"
	"time"
)

// JobRepository stores job postings.
type JobRepository interface {
	CreateJob(ctx context.Context, job Job) error
	GetJob(ctx context.Context, id string) (Job, error)
}

// ApplicationFilter narrows application queries. An empty JobID matches every job.
type ApplicationFilter struct {
	JobID string
}

// ApplicationRepository stores applications. Listings are returned in insertion order.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, application Application) error
	GetApplication(ctx context.Context, id string) (Application, error)
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]Application, error)
	UpdateApplication(ctx context.Context, id string, patch ApplicationPatch) (Application, error)
}

// InterviewFilter narrows interview queries. Zero values match everything.
type InterviewFilter struct {
	ApplicationID    string
	InterviewerEmail string
	StartsAfter      *time.Time
	StartsBefore     *time.Time
	ExcludeCancelled bool
}

// InterviewRepository stores interviews. CreateInterview and UpdateInterview reject, with
// ErrOverlap, any non-cancelled interview whose window overlaps another non-cancelled
// interview for the same interviewer. Interviewer emails are stored and matched as
// InterviewerKey. Listings are ordered by start time.
type InterviewRepository interface {
	CreateInterview(ctx context.Context, interview Interview) error
	UpdateInterview(ctx context.Context, interview Interview) error
	GetInterview(ctx context.Context, id string) (Interview, error)
	ListInterviews(ctx context.Context, filter InterviewFilter) ([]Interview, error)
}
