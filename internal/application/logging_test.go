package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/example/hiring-portal/internal/analysis"
	"github.com/example/hiring-portal/internal/notify"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "not found", err: fmt.Errorf("load: %w", ErrNotFound), want: "not_found"},
		{name: "conflict", err: ErrConflict, want: "conflict"},
		{name: "transition", err: ErrInvalidTransition, want: "invalid_transition"},
		{name: "analysis", err: fmt.Errorf("%w: boom", analysis.ErrAnalysisFailed), want: "analysis_failed"},
		{name: "notification", err: notify.ErrNotificationFailed, want: "notification_failed"},
		{name: "timeout", err: context.DeadlineExceeded, want: "timeout"},
		{name: "validation", err: newValidationError("type", "bad"), want: "validation"},
		{name: "other", err: fmt.Errorf("boom"), want: "unexpected"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ErrorKind(tt.err); got != tt.want {
				t.Fatalf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}
