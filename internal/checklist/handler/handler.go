package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hay-kot/criterio"

	"triplist/internal/checklist/models"
	"triplist/internal/checklist/service"
	id "triplist/pkg/domain"
	"triplist/pkg/platform/httputil"
	"triplist/pkg/requestcontext"
)

// Service defines the checklist operations the HTTP layer depends on.
type Service interface {
	CreateChecklist(ctx context.Context, in service.ChecklistInput) (*models.Checklist, error)
	ListChecklists(ctx context.Context, filter models.ChecklistFilter) ([]*models.Checklist, error)
	GetChecklist(ctx context.Context, checklistID id.ChecklistID) (*models.Checklist, error)
	UpdateChecklist(ctx context.Context, checklistID id.ChecklistID, in service.ChecklistInput) (*models.Checklist, error)
	DeleteChecklist(ctx context.Context, checklistID id.ChecklistID) error
	CreateItem(ctx context.Context, checklistID id.ChecklistID, in service.ItemInput) (*models.Item, error)
	ListItems(ctx context.Context, checklistID id.ChecklistID, filter models.ItemFilter) ([]*models.Item, error)
	GetItem(ctx context.Context, itemID id.ItemID) (*models.Item, error)
	UpdateItem(ctx context.Context, itemID id.ItemID, in service.ItemInput) (*models.Item, error)
	ToggleItemStatus(ctx context.Context, itemID id.ItemID) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID id.ItemID) error
}

// Handler serves the checklist and checklist-item endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts checklist endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/checklist", func(r chi.Router) {
		r.Get("/", h.HandleListChecklists)
		r.Post("/", h.HandleCreateChecklist)
		r.Get("/{id}", h.HandleGetChecklist)
		r.Put("/{id}", h.HandleUpdateChecklist)
		r.Delete("/{id}", h.HandleDeleteChecklist)
	})
	r.Route("/checklist-item", func(r chi.Router) {
		r.Get("/", h.HandleListItems)
		r.Post("/", h.HandleCreateItem)
		r.Post("/toggle-status", h.HandleToggleItemStatus)
		r.Get("/{id}", h.HandleGetItem)
		r.Put("/{id}", h.HandleUpdateItem)
		r.Delete("/{id}", h.HandleDeleteItem)
	})
}

func (h *Handler) HandleListChecklists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter, err := parseChecklistFilter(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid checklist listing query",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	list, err := h.service.ListChecklists(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "failed to list checklists", err)
		return
	}
	httputil.WriteList(w, toChecklistResponses(list))
}

func (h *Handler) HandleCreateChecklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ChecklistRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	c, err := h.service.CreateChecklist(ctx, req.input())
	if err != nil {
		h.fail(ctx, w, "failed to create checklist", err)
		return
	}

	h.logger.InfoContext(ctx, "checklist created",
		"request_id", requestID,
		"checklist_id", c.ID,
	)
	httputil.WriteData(w, http.StatusCreated, toChecklistResponse(c))
}

func (h *Handler) HandleGetChecklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checklistID, ok := h.checklistIDParam(w, r)
	if !ok {
		return
	}

	c, err := h.service.GetChecklist(ctx, checklistID)
	if err != nil {
		h.fail(ctx, w, "failed to get checklist", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, toChecklistResponse(c))
}

func (h *Handler) HandleUpdateChecklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	checklistID, ok := h.checklistIDParam(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[ChecklistRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	c, err := h.service.UpdateChecklist(ctx, checklistID, req.input())
	if err != nil {
		h.fail(ctx, w, "failed to update checklist", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, toChecklistResponse(c))
}

func (h *Handler) HandleDeleteChecklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checklistID, ok := h.checklistIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteChecklist(ctx, checklistID); err != nil {
		h.fail(ctx, w, "failed to delete checklist", err)
		return
	}

	h.logger.InfoContext(ctx, "checklist deleted",
		"request_id", requestcontext.RequestID(ctx),
		"checklist_id", checklistID,
	)
	httputil.WriteData(w, http.StatusOK, struct{}{})
}

func (h *Handler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checklistID, filter, err := parseItemQuery(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid item listing query",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	items, err := h.service.ListItems(ctx, checklistID, filter)
	if err != nil {
		h.fail(ctx, w, "failed to list items", err)
		return
	}
	httputil.WriteList(w, toItemResponses(items))
}

func (h *Handler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateItemRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	it, err := h.service.CreateItem(ctx, req.parsedChecklistID, service.ItemInput{
		Name:        req.Name,
		Observation: req.Observation,
	})
	if err != nil {
		h.fail(ctx, w, "failed to create item", err)
		return
	}

	h.logger.InfoContext(ctx, "item created",
		"request_id", requestID,
		"checklist_id", it.ChecklistID,
		"item_id", it.ID,
	)
	httputil.WriteData(w, http.StatusCreated, toItemResponse(it))
}

func (h *Handler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID, ok := h.itemIDParam(w, r)
	if !ok {
		return
	}

	it, err := h.service.GetItem(ctx, itemID)
	if err != nil {
		h.fail(ctx, w, "failed to get item", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, toItemResponse(it))
}

func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	itemID, ok := h.itemIDParam(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateItemRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	it, err := h.service.UpdateItem(ctx, itemID, req.input())
	if err != nil {
		h.fail(ctx, w, "failed to update item", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, toItemResponse(it))
}

func (h *Handler) HandleToggleItemStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ToggleStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	it, err := h.service.ToggleItemStatus(ctx, req.parsedItemID)
	if err != nil {
		h.fail(ctx, w, "failed to toggle item status", err)
		return
	}

	h.logger.InfoContext(ctx, "item status toggled",
		"request_id", requestID,
		"item_id", it.ID,
		"status", it.Status,
	)
	httputil.WriteData(w, http.StatusOK, toItemResponse(it))
}

func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID, ok := h.itemIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteItem(ctx, itemID); err != nil {
		h.fail(ctx, w, "failed to delete item", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, struct{}{})
}

func (h *Handler) checklistIDParam(w http.ResponseWriter, r *http.Request) (id.ChecklistID, bool) {
	checklistID, err := id.ParseChecklistID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, httputil.ValidationError(criterio.NewFieldErrors("id", errMessage(err))))
		return id.ChecklistID{}, false
	}
	return checklistID, true
}

func (h *Handler) itemIDParam(w http.ResponseWriter, r *http.Request) (id.ItemID, bool) {
	itemID, err := id.ParseItemID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, httputil.ValidationError(criterio.NewFieldErrors("id", errMessage(err))))
		return id.ItemID{}, false
	}
	return itemID, true
}

// fail logs a service error at a level matching its severity and writes it.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if status := httputil.StatusOf(err); status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
