package http

import "context"

type contextKey string

const (
	jobIDContextKey         contextKey = "job_id"
	applicationIDContextKey contextKey = "application_id"
	interviewIDContextKey   contextKey = "interview_id"
)

// ContextWithJobID injects the job identifier resolved from the request path.
func ContextWithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDContextKey, jobID)
}

// JobIDFromContext extracts a job identifier previously associated with the context.
func JobIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(jobIDContextKey).(string)
	return id, ok
}

// ContextWithApplicationID injects the application identifier resolved from the request path.
func ContextWithApplicationID(ctx context.Context, applicationID string) context.Context {
	return context.WithValue(ctx, applicationIDContextKey, applicationID)
}

// ApplicationIDFromContext extracts an application identifier previously associated with the context.
func ApplicationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(applicationIDContextKey).(string)
	return id, ok
}

// ContextWithInterviewID injects the interview identifier resolved from the request path.
func ContextWithInterviewID(ctx context.Context, interviewID string) context.Context {
	return context.WithValue(ctx, interviewIDContextKey, interviewID)
}

// InterviewIDFromContext extracts an interview identifier previously associated with the context.
func InterviewIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(interviewIDContextKey).(string)
	return id, ok
}
