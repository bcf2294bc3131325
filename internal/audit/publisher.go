package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"census/pkg/requestcontext"
)

// Publisher enqueues events for the Worker. Emit never blocks on the sink: when
// the buffer is full the event is dropped and logged.
type Publisher struct {
	inbox   chan Event
	logger  *slog.Logger
	dropped atomic.Int64

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewPublisher creates a publisher with a buffer of size events.
func NewPublisher(size int, logger *slog.Logger) *Publisher {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		inbox:  make(chan Event, size),
		logger: logger,
	}
}

// Emit stamps the event with the request time and id and queues it.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.drop(ctx, event, "publisher closed")
		return
	}
	select {
	case p.inbox <- event:
	default:
		p.drop(ctx, event, "audit buffer full")
	}
}

// Inbox is drained by the Worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Dropped returns how many events were discarded.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close stops accepting events and closes the inbox so the Worker can finish.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.inbox)
		p.mu.Unlock()
	})
}

func (p *Publisher) drop(ctx context.Context, event Event, reason string) {
	p.dropped.Add(1)
	p.logger.WarnContext(ctx, "audit event dropped",
		"reason", reason,
		"action", event.Action,
		"import_id", event.ImportID,
	)
}
