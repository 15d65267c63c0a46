package activity

import (
	"context"
	"log/slog"
)

// Worker consumes activity events from a channel and persists them. A failed
// append is logged and counted; the feed is best-effort and never stops the worker.
type Worker struct {
	store   Store
	inbox   <-chan Event
	logger  *slog.Logger
	metrics *Metrics
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger, metrics *Metrics) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger, metrics: metrics}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return nil
		case event := <-w.inbox:
			w.append(ctx, event)
		}
	}
}

// drain flushes events queued before shutdown; the run context is already cancelled.
func (w *Worker) drain() {
	ctx := context.Background()
	for {
		select {
		case event := <-w.inbox:
			w.append(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) append(ctx context.Context, event Event) {
	err := w.store.Append(ctx, event)
	w.metrics.observe(err)
	if err != nil {
		w.logger.ErrorContext(ctx, "failed to persist activity event",
			"action", event.Action,
			"checklist_id", event.ChecklistID,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}
