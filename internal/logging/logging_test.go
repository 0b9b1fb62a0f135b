package logging

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestFromContextOr(t *testing.T) {
	t.Parallel()

	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	attached := slog.New(slog.NewJSONHandler(io.Discard, nil))

	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Fatalf("expected fallback logger when context carries none")
	}

	ctx := ContextWithLogger(context.Background(), attached)
	if got := FromContextOr(ctx, fallback); got != attached {
		t.Fatalf("expected context logger to win over fallback")
	}

	if got := FromContextOr(context.Background(), nil); got == nil {
		t.Fatalf("expected slog.Default when nothing else is available")
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}

	ctx := ContextWithRequestID(context.Background(), "req-7")
	if got := RequestID(ctx); got != "req-7" {
		t.Fatalf("RequestID = %q, want req-7", got)
	}
	if got := RequestID(ContextWithRequestID(ctx, "")); got != "req-7" {
		t.Fatalf("blank id should keep the previous one, got %q", got)
	}
}
