package audit

import (
	"context"
	"log/slog"
	"time"
)

// drainTimeout bounds delivery of buffered events after shutdown starts.
const drainTimeout = 5 * time.Second

// Worker consumes audit events from a channel and appends them to the store.
// A failed append is logged and the worker moves on.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run delivers events until the inbox closes or ctx is cancelled. On
// cancellation it delivers what is already buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.append(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case event, ok := <-w.inbox:
			if !ok {
				return
			}
			w.append(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) append(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to append audit event",
			"error", err,
			"action", event.Action,
			"import_id", event.ImportID,
			"request_id", event.RequestID,
		)
	}
}
