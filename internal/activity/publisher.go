package activity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	id "triplist/pkg/domain"
	"triplist/pkg/requestcontext"
)

// Store persists activity events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Reader lists recorded activity, newest first.
type Reader interface {
	ListRecent(ctx context.Context, filter Filter) ([]Event, error)
}

// ErrBufferFull is returned by Emit in async mode when the queue is saturated.
var ErrBufferFull = errors.New("activity buffer full")

// Publisher captures activity events. It is append-only and writes either
// straight to its store or, with WithAsyncBuffer, through a queue drained by Run.
type Publisher struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
	queue   chan Event
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithAsyncBuffer queues up to size events for the background worker started by Run.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan Event, size)
		}
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Emit fills in id, timestamp and request id when missing, then records the event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if uuid.UUID(event.ID) == uuid.Nil {
		event.ID = id.NewEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if p.queue == nil {
		err := p.store.Append(ctx, event)
		p.metrics.observe(err)
		return err
	}

	select {
	case p.queue <- event:
		return nil
	default:
		p.metrics.incDropped()
		p.logger.WarnContext(ctx, "activity buffer full, dropping event",
			"action", event.Action,
			"checklist_id", event.ChecklistID,
		)
		return ErrBufferFull
	}
}

// Async reports whether events are queued for a background worker.
func (p *Publisher) Async() bool {
	return p.queue != nil
}

// Run drains the async queue until ctx is cancelled, then flushes whatever is
// still buffered. It returns immediately in sync mode.
func (p *Publisher) Run(ctx context.Context) error {
	if p.queue == nil {
		return nil
	}
	w := NewWorker(p.store, p.queue, p.logger, p.metrics)
	return w.Run(ctx)
}
