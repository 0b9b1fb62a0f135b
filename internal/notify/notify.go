// Package notify delivers interview notifications. Messages are published to an Outbox after the
// triggering state change has been committed, and a worker hands them to a Dispatcher.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/example/hiring-portal/internal/logging"
)

// ErrNotificationFailed reports a message that could not be queued or sent. It never fails the
// operation that produced the message.
var ErrNotificationFailed = errors.New("notify: notification failed")

// Message is an email-style notification.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Dispatcher sends a message. The boolean reports whether the message was accepted for delivery.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) (bool, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, msg Message) (bool, error)

// Send calls f(ctx, msg).
func (f DispatcherFunc) Send(ctx context.Context, msg Message) (bool, error) {
	return f(ctx, msg)
}

// LogDispatcher writes messages to the log instead of sending them.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher returns a dispatcher that logs every message at INFO.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

// Send logs the message and reports it as sent.
func (d *LogDispatcher) Send(ctx context.Context, msg Message) (bool, error) {
	if strings.TrimSpace(msg.To) == "" {
		return false, errors.New("notify: recipient is required")
	}
	attrs := []any{"to", msg.To, "subject", msg.Subject, "text", msg.Text}
	if id := logging.RequestID(ctx); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	d.logger.InfoContext(ctx, "notification", attrs...)
	return true, nil
}
