package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/hiring-portal/internal/logging"
)

const (
	// DefaultQueueSize is used when NewOutbox receives a non-positive size.
	DefaultQueueSize = 64
	// DefaultSendTimeout bounds a single dispatcher call.
	DefaultSendTimeout = 10 * time.Second
)

// Outbox queues messages and sends them from a single worker goroutine.
type Outbox struct {
	dispatcher  Dispatcher
	logger      *slog.Logger
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan envelope
	done   chan struct{}
}

// envelope keeps the publishing request's id with the message for delivery logs.
type envelope struct {
	msg       Message
	requestID string
}

// OutboxOption configures an Outbox.
type OutboxOption func(*Outbox)

// WithSendTimeout overrides DefaultSendTimeout.
func WithSendTimeout(timeout time.Duration) OutboxOption {
	return func(o *Outbox) {
		if timeout > 0 {
			o.sendTimeout = timeout
		}
	}
}

// NewOutbox starts the worker. Close must be called to stop it.
func NewOutbox(dispatcher Dispatcher, size int, logger *slog.Logger, opts ...OutboxOption) *Outbox {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := &Outbox{
		dispatcher:  dispatcher,
		logger:      logger,
		sendTimeout: DefaultSendTimeout,
		queue:       make(chan envelope, size),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	go o.run()
	return o
}

// Publish enqueues the message without waiting for delivery. A full queue or a closed outbox
// yields ErrNotificationFailed.
func (o *Outbox) Publish(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("%w: recipient is required", ErrNotificationFailed)
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return fmt.Errorf("%w: outbox closed", ErrNotificationFailed)
	}
	select {
	case o.queue <- envelope{msg: msg, requestID: logging.RequestID(ctx)}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrNotificationFailed, ctx.Err())
	default:
		return fmt.Errorf("%w: queue full", ErrNotificationFailed)
	}
}

// Close stops accepting messages and waits until queued messages are sent or ctx ends.
func (o *Outbox) Close(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
	o.mu.Unlock()

	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Outbox) run() {
	defer close(o.done)
	for env := range o.queue {
		o.deliver(env)
	}
}

func (o *Outbox) deliver(env envelope) {
	msg := env.msg
	logger := o.logger.With("to", msg.To, "subject", msg.Subject)
	if env.requestID != "" {
		logger = logger.With("request_id", env.requestID)
	}

	if o.dispatcher == nil {
		logger.Warn("notification dropped", "reason", "no dispatcher")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.sendTimeout)
	defer cancel()
	ctx = logging.ContextWithRequestID(ctx, env.requestID)

	sent, err := o.dispatcher.Send(ctx, msg)
	switch {
	case err != nil:
		logger.Warn("notification failed", "error", err, "error_kind", "notification_failed")
	case !sent:
		logger.Warn("notification not accepted", "error_kind", "notification_failed")
	default:
		logger.Debug("notification sent")
	}
}
