package audit

import (
	"context"
	"sync"

	"github.com/serroba/shorturls/internal/messaging"
	"go.uber.org/zap"
)

// DefaultBuffer is the number of events a Trail holds before dropping.
const DefaultBuffer = 256

// Trail is the non-blocking entry point for audit events.
//
// Record hands events to a bounded buffer and returns immediately; a single
// worker publishes them in order. Publish failures are logged and dropped.
type Trail struct {
	publish messaging.Publish[Event]
	stack   string
	logger  *zap.Logger

	mu      sync.RWMutex
	events  chan Event
	started bool
	closed  bool
	done    chan struct{}
}

// NewTrail creates a trail that publishes events under the given stack name.
func NewTrail(publish messaging.Publish[Event], stack string, buffer int, logger *zap.Logger) *Trail {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	return &Trail{
		publish: publish,
		stack:   stack,
		logger:  logger,
		events:  make(chan Event, buffer),
		done:    make(chan struct{}),
	}
}

// NewDisabledTrail returns a trail that discards every event.
func NewDisabledTrail() *Trail {
	return &Trail{}
}

// Enabled reports whether events are emitted at all.
func (t *Trail) Enabled() bool {
	return t.publish != nil
}

// Record queues an event. It never blocks the caller.
func (t *Trail) Record(level Level, pkg, message string) {
	if !t.Enabled() {
		return
	}

	event := Event{
		Stack:   t.stack,
		Level:   level,
		Package: pkg,
		Message: message,
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return
	}

	select {
	case t.events <- event:
	default:
		t.logger.Warn("audit buffer full, dropping event",
			zap.String("level", string(level)),
			zap.String("message", message),
		)
	}
}

// Start launches the publishing worker.
func (t *Trail) Start(_ context.Context) error {
	if !t.Enabled() {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started || t.closed {
		return nil
	}

	t.started = true

	go t.run()

	return nil
}

func (t *Trail) run() {
	defer close(t.done)

	for event := range t.events {
		t.logger.Debug("audit event",
			zap.String("level", string(event.Level)),
			zap.String("package", event.Package),
			zap.String("message", event.Message),
		)

		if err := t.publish(&event); err != nil {
			t.logger.Warn("failed to publish audit event",
				zap.String("message", event.Message),
				zap.Error(err),
			)
		}
	}
}

// Shutdown stops accepting events and waits until buffered ones are published.
func (t *Trail) Shutdown() error {
	if !t.Enabled() {
		return nil
	}

	t.mu.Lock()

	if t.closed {
		t.mu.Unlock()

		return nil
	}

	t.closed = true
	close(t.events)
	started := t.started
	t.mu.Unlock()

	if started {
		<-t.done
	}

	return nil
}
