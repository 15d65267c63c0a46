package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"triplist/internal/activity"
	checklistmetrics "triplist/internal/checklist/metrics"
	"triplist/internal/checklist/models"
	id "triplist/pkg/domain"
	dErrors "triplist/pkg/domain-errors"
	"triplist/pkg/platform/sentinel"
	"triplist/pkg/requestcontext"
)

const tracerName = "triplist/internal/checklist/service"

type ChecklistStore interface {
	Create(ctx context.Context, checklist *models.Checklist) error
	List(ctx context.Context, filter models.ChecklistFilter) ([]*models.Checklist, error)
	FindByID(ctx context.Context, checklistID id.ChecklistID) (*models.Checklist, error)
	Update(ctx context.Context, checklistID id.ChecklistID, name string, tripType models.TripType, description *string) (*models.Checklist, error)
	Delete(ctx context.Context, checklistID id.ChecklistID) error
	Count(ctx context.Context) (int, error)
}

type ItemStore interface {
	Create(ctx context.Context, checklistID id.ChecklistID, name string, observation *string) (*models.Item, error)
	List(ctx context.Context, checklistID id.ChecklistID, filter models.ItemFilter) ([]*models.Item, error)
	FindByID(ctx context.Context, itemID id.ItemID) (*models.Item, error)
	Update(ctx context.Context, itemID id.ItemID, name string, observation *string) (*models.Item, error)
	ToggleStatus(ctx context.Context, itemID id.ItemID) (*models.Item, error)
	Delete(ctx context.Context, itemID id.ItemID) error
	DeleteByChecklist(ctx context.Context, checklistID id.ChecklistID) (int, error)
}

type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// ChecklistInput carries the mutable checklist fields for create and update.
type ChecklistInput struct {
	Name        string
	TripType    models.TripType
	Description *string
}

// ItemInput carries the mutable item fields for create and update.
type ItemInput struct {
	Name        string
	Observation *string
}

// Service orchestrates checklists and their items.
//
// Stores enforce per-record invariants. The service adds the rules that span
// both stores: items exist only under an existing checklist, and deleting a
// checklist removes its items. Both run under the checklist's shard lock so a
// concurrent item create cannot slip in between the existence check and the
// cascade.
type Service struct {
	checklists ChecklistStore
	items      ItemStore
	tx         *shardedChecklistTx
	logger     *slog.Logger
	activity   ActivityPublisher
	metrics    *checklistmetrics.Metrics
	tracer     trace.Tracer
	txTimeout  time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithActivityPublisher(publisher ActivityPublisher) Option {
	return func(s *Service) {
		s.activity = publisher
	}
}

func WithMetrics(m *checklistmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithTxTimeout bounds each locked orchestration step when the caller has no deadline.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.txTimeout = d
	}
}

// New constructs a Service.
func New(checklists ChecklistStore, items ItemStore, opts ...Option) *Service {
	s := &Service{checklists: checklists, items: items}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	s.tx = newShardedChecklistTx(s.txTimeout)
	return s
}

func (s *Service) CreateChecklist(ctx context.Context, in ChecklistInput) (_ *models.Checklist, err error) {
	const op = "create_checklist"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op)
	defer func() { s.finish(span, op, start, err) }()

	in.Name = strings.TrimSpace(in.Name)
	c, err := models.NewChecklist(id.NewChecklistID(), in.Name, in.TripType, in.Description, requestcontext.Now(ctx))
	if err != nil {
		return nil, invalidInput(err, "invalid checklist")
	}

	if err := s.checklists.Create(ctx, c); err != nil {
		return nil, s.translate(op, err, "checklist")
	}
	span.SetAttributes(attribute.String("checklist.id", c.ID.String()))

	s.logAudit(ctx, activity.ActionChecklistCreated, c.ID, nil, "trip_type", c.TripType)
	s.incrementChecklistsCreated(ctx)
	return c, nil
}

func (s *Service) ListChecklists(ctx context.Context, filter models.ChecklistFilter) (_ []*models.Checklist, err error) {
	const op = "list_checklists"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op)
	defer func() { s.finish(span, op, start, err) }()

	list, err := s.checklists.List(ctx, filter)
	if err != nil {
		return nil, s.translate(op, err, "checklist")
	}
	span.SetAttributes(attribute.Int("checklist.count", len(list)))
	return list, nil
}

func (s *Service) GetChecklist(ctx context.Context, checklistID id.ChecklistID) (_ *models.Checklist, err error) {
	const op = "get_checklist"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("checklist.id", checklistID.String()))
	defer func() { s.finish(span, op, start, err) }()

	c, err := s.checklists.FindByID(ctx, checklistID)
	if err != nil {
		return nil, s.translate(op, err, "checklist")
	}
	return c, nil
}

func (s *Service) UpdateChecklist(ctx context.Context, checklistID id.ChecklistID, in ChecklistInput) (_ *models.Checklist, err error) {
	const op = "update_checklist"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("checklist.id", checklistID.String()))
	defer func() { s.finish(span, op, start, err) }()

	in.Name = strings.TrimSpace(in.Name)
	if err := models.ValidateChecklistFields(in.Name, in.TripType, in.Description); err != nil {
		return nil, invalidInput(err, "invalid checklist")
	}

	c, err := s.checklists.Update(ctx, checklistID, in.Name, in.TripType, in.Description)
	if err != nil {
		return nil, s.translate(op, err, "checklist")
	}

	s.logAudit(ctx, activity.ActionChecklistUpdated, c.ID, nil)
	return c, nil
}

// DeleteChecklist removes a checklist together with all of its items.
func (s *Service) DeleteChecklist(ctx context.Context, checklistID id.ChecklistID) (err error) {
	const op = "delete_checklist"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("checklist.id", checklistID.String()))
	defer func() { s.finish(span, op, start, err) }()

	var removed int
	err = s.tx.RunInTx(ctx, checklistID, func(txCtx context.Context) error {
		if _, err := s.checklists.FindByID(txCtx, checklistID); err != nil {
			return err
		}
		n, err := s.items.DeleteByChecklist(txCtx, checklistID)
		if err != nil {
			return err
		}
		removed = n
		return s.checklists.Delete(txCtx, checklistID)
	})
	if err != nil {
		return s.translate(op, err, "checklist")
	}
	span.SetAttributes(attribute.Int("checklist.items_removed", removed))

	s.logAudit(ctx, activity.ActionChecklistDeleted, checklistID, nil, "items_removed", removed)
	s.incrementChecklistsDeleted(ctx, removed)
	return nil
}

func (s *Service) CreateItem(ctx context.Context, checklistID id.ChecklistID, in ItemInput) (_ *models.Item, err error) {
	const op = "create_item"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("checklist.id", checklistID.String()))
	defer func() { s.finish(span, op, start, err) }()

	in.Name = strings.TrimSpace(in.Name)
	if err := models.ValidateItemFields(in.Name, in.Observation); err != nil {
		return nil, invalidInput(err, "invalid item")
	}

	var created *models.Item
	err = s.tx.RunInTx(ctx, checklistID, func(txCtx context.Context) error {
		if _, err := s.checklists.FindByID(txCtx, checklistID); err != nil {
			return err
		}
		it, err := s.items.Create(txCtx, checklistID, in.Name, in.Observation)
		if err != nil {
			return err
		}
		created = it
		return nil
	})
	if err != nil {
		return nil, s.translate(op, err, "checklist")
	}
	span.SetAttributes(attribute.String("item.id", created.ID.String()))

	s.logAudit(ctx, activity.ActionItemCreated, checklistID, &created.ID, "order", created.Order)
	if s.metrics != nil {
		s.metrics.ItemsCreated.Inc()
	}
	return created, nil
}

// ListItems lists the items of an existing checklist.
func (s *Service) ListItems(ctx context.Context, checklistID id.ChecklistID, filter models.ItemFilter) (_ []*models.Item, err error) {
	const op = "list_items"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("checklist.id", checklistID.String()))
	defer func() { s.finish(span, op, start, err) }()

	if _, err := s.checklists.FindByID(ctx, checklistID); err != nil {
		return nil, s.translate(op, err, "checklist")
	}
	items, err := s.items.List(ctx, checklistID, filter)
	if err != nil {
		return nil, s.translate(op, err, "item")
	}
	return items, nil
}

func (s *Service) GetItem(ctx context.Context, itemID id.ItemID) (_ *models.Item, err error) {
	const op = "get_item"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("item.id", itemID.String()))
	defer func() { s.finish(span, op, start, err) }()

	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, s.translate(op, err, "item")
	}
	return it, nil
}

func (s *Service) UpdateItem(ctx context.Context, itemID id.ItemID, in ItemInput) (_ *models.Item, err error) {
	const op = "update_item"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("item.id", itemID.String()))
	defer func() { s.finish(span, op, start, err) }()

	in.Name = strings.TrimSpace(in.Name)
	if err := models.ValidateItemFields(in.Name, in.Observation); err != nil {
		return nil, invalidInput(err, "invalid item")
	}

	it, err := s.items.Update(ctx, itemID, in.Name, in.Observation)
	if err != nil {
		return nil, s.translate(op, err, "item")
	}

	s.logAudit(ctx, activity.ActionItemUpdated, it.ChecklistID, &it.ID)
	return it, nil
}

// ToggleItemStatus flips an item between pending and verified.
func (s *Service) ToggleItemStatus(ctx context.Context, itemID id.ItemID) (_ *models.Item, err error) {
	const op = "toggle_item_status"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("item.id", itemID.String()))
	defer func() { s.finish(span, op, start, err) }()

	var toggled *models.Item
	err = s.withItemChecklistLock(ctx, itemID, func(txCtx context.Context) error {
		it, err := s.items.ToggleStatus(txCtx, itemID)
		if err != nil {
			return err
		}
		toggled = it
		return nil
	})
	if err != nil {
		return nil, s.translate(op, err, "item")
	}
	span.SetAttributes(attribute.String("item.status", toggled.Status.String()))

	s.logAudit(ctx, activity.ActionItemStatusToggled, toggled.ChecklistID, &toggled.ID, "status", toggled.Status)
	if s.metrics != nil {
		s.metrics.IncrementToggled(toggled.Status.String())
	}
	return toggled, nil
}

func (s *Service) DeleteItem(ctx context.Context, itemID id.ItemID) (err error) {
	const op = "delete_item"
	start := time.Now()
	ctx, span := s.startSpan(ctx, op, attribute.String("item.id", itemID.String()))
	defer func() { s.finish(span, op, start, err) }()

	var checklistID id.ChecklistID
	err = s.withItemChecklistLock(ctx, itemID, func(txCtx context.Context) error {
		it, err := s.items.FindByID(txCtx, itemID)
		if err != nil {
			return err
		}
		checklistID = it.ChecklistID
		return s.items.Delete(txCtx, itemID)
	})
	if err != nil {
		return s.translate(op, err, "item")
	}

	s.logAudit(ctx, activity.ActionItemDeleted, checklistID, &itemID)
	if s.metrics != nil {
		s.metrics.ItemsDeleted.Inc()
	}
	return nil
}

// withItemChecklistLock runs fn under the shard lock of the item's checklist.
// An item's checklist never changes, so resolving it before locking is safe.
func (s *Service) withItemChecklistLock(ctx context.Context, itemID id.ItemID, fn func(ctx context.Context) error) error {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, it.ChecklistID, fn)
}

// translate maps store sentinels onto coded domain errors. Errors that already
// carry a code pass through unchanged.
func (s *Service) translate(op string, err error, entity string) error {
	var reason string
	var out error
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		reason, out = "not_found", dErrors.New(dErrors.CodeNotFound, entity+" not found")
	case errors.Is(err, sentinel.ErrConflict):
		reason, out = "duplicate_name", dErrors.New(dErrors.CodeConflict, "a checklist with this name already exists")
	case errors.Is(err, sentinel.ErrLimitExceeded):
		reason, out = "capacity_exceeded", dErrors.New(dErrors.CodeCapacityExceeded, "checklist already holds the maximum number of items")
	default:
		if _, ok := dErrors.As(err); ok {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "checklist operation failed")
	}
	if s.metrics != nil {
		s.metrics.IncrementRejected(op, reason)
	}
	return out
}

// invalidInput converts model invariant violations into validation errors,
// keeping the field errors in the chain for the transport to report.
func invalidInput(err error, msg string) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.Wrap(err, dErrors.CodeValidation, msg)
	}
	return err
}

func (s *Service) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "checklist."+op, trace.WithAttributes(attrs...))
}

// finish closes the span and records the operation latency.
func (s *Service) finish(span trace.Span, op string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}

func (s *Service) logAudit(ctx context.Context, action activity.Action, checklistID id.ChecklistID, itemID *id.ItemID, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	args := append(attributes,
		"checklist_id", checklistID,
		"event", string(action),
		"log_type", "audit",
	)
	if itemID != nil {
		args = append(args, "item_id", *itemID)
	}
	if requestID != "" {
		args = append(args, "request_id", requestID)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(action), args...)
	}
	if s.activity == nil {
		return
	}
	if err := s.activity.Emit(ctx, activity.Event{
		Action:      action,
		ChecklistID: checklistID,
		ItemID:      itemID,
		RequestID:   requestID,
	}); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to publish activity event",
			"event", string(action),
			"request_id", requestID,
			"error", err,
		)
	}
}

func (s *Service) incrementChecklistsCreated(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	s.metrics.ChecklistsCreated.Inc()
	s.refreshChecklistGauge(ctx)
}

func (s *Service) incrementChecklistsDeleted(ctx context.Context, itemsRemoved int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ChecklistsDeleted.Inc()
	s.metrics.ItemsCascaded.Add(float64(itemsRemoved))
	s.refreshChecklistGauge(ctx)
}

func (s *Service) refreshChecklistGauge(ctx context.Context) {
	n, err := s.checklists.Count(ctx)
	if err != nil {
		return
	}
	s.metrics.ChecklistsTotal.Set(float64(n))
}
