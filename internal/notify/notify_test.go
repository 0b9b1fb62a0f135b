package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/hiring-portal/internal/logging"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	messages []Message
	err      error
	sent     bool
	release  chan struct{}
}

func (r *recordingDispatcher) Send(ctx context.Context, msg Message) (bool, error) {
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return r.sent, r.err
}

func (r *recordingDispatcher) recorded() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOutboxDeliversInOrderAndDrainsOnClose(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{sent: true}
	outbox := NewOutbox(dispatcher, 8, discardLogger())

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if err := outbox.Publish(context.Background(), Message{To: to, Subject: "hi"}); err != nil {
			t.Fatalf("Publish(%s) returned error: %v", to, err)
		}
	}

	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	got := dispatcher.recorded()
	if len(got) != 3 {
		t.Fatalf("expected 3 delivered messages, got %d", len(got))
	}
	if got[0].To != "a@example.com" || got[2].To != "c@example.com" {
		t.Fatalf("unexpected delivery order: %#v", got)
	}
}

func TestOutboxPublishFailures(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	dispatcher := &recordingDispatcher{sent: true, release: release}
	outbox := NewOutbox(dispatcher, 1, discardLogger())

	if err := outbox.Publish(context.Background(), Message{To: ""}); !errors.Is(err, ErrNotificationFailed) {
		t.Fatalf("expected ErrNotificationFailed for blank recipient, got %v", err)
	}

	// The worker takes at most one message and blocks on release, so the queue of one fills up.
	var full error
	for i := 0; i < 3 && full == nil; i++ {
		full = outbox.Publish(context.Background(), Message{To: "x@example.com"})
	}
	if !errors.Is(full, ErrNotificationFailed) {
		t.Fatalf("expected ErrNotificationFailed when queue is full, got %v", full)
	}

	close(release)
	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := outbox.Publish(context.Background(), Message{To: "late@example.com"}); !errors.Is(err, ErrNotificationFailed) {
		t.Fatalf("expected ErrNotificationFailed after close, got %v", err)
	}
	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

func TestOutboxLogsDispatcherFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &mu}, nil))

	outbox := NewOutbox(DispatcherFunc(func(ctx context.Context, msg Message) (bool, error) {
		return false, errors.New("smtp down")
	}), 4, logger, WithSendTimeout(time.Second))

	if err := outbox.Publish(context.Background(), Message{To: "a@example.com", Subject: "hi"}); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(buf.String(), "notification failed") || !strings.Contains(buf.String(), "smtp down") {
		t.Fatalf("expected failure to be logged, got %q", buf.String())
	}
}

func TestOutboxCarriesRequestID(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		ids []string
	)
	outbox := NewOutbox(DispatcherFunc(func(ctx context.Context, msg Message) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, logging.RequestID(ctx))
		return true, nil
	}), 4, discardLogger())

	ctx := logging.ContextWithRequestID(context.Background(), "req-42")
	if err := outbox.Publish(ctx, Message{To: "a@example.com"}); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if err := outbox.Publish(context.Background(), Message{To: "b@example.com"}); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(ids) != 2 || ids[0] != "req-42" || ids[1] != "" {
		t.Fatalf("unexpected request ids %q", ids)
	}
}

func TestLogDispatcher(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	dispatcher := NewLogDispatcher(slog.New(slog.NewTextHandler(&buf, nil)))

	sent, err := dispatcher.Send(context.Background(), Message{To: "a@example.com", Subject: "Interview invitation"})
	if err != nil || !sent {
		t.Fatalf("expected message to be sent, got sent=%v err=%v", sent, err)
	}
	if !strings.Contains(buf.String(), "Interview invitation") {
		t.Fatalf("expected subject in log output, got %q", buf.String())
	}

	if sent, err := dispatcher.Send(context.Background(), Message{}); err == nil || sent {
		t.Fatalf("expected blank recipient to be rejected")
	}
}

type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
