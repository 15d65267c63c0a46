// Package handler exposes the activity feed over HTTP.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hay-kot/criterio"

	"triplist/internal/activity"
	id "triplist/pkg/domain"
	dErrors "triplist/pkg/domain-errors"
	"triplist/pkg/platform/httputil"
	"triplist/pkg/requestcontext"
)

type Handler struct {
	reader activity.Reader
	logger *slog.Logger
}

func New(reader activity.Reader, logger *slog.Logger) *Handler {
	return &Handler{reader: reader, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/activity", h.HandleListActivity)
}

type EventResponse struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	ChecklistID string    `json:"checklistId"`
	ItemID      *string   `json:"itemId"`
	RequestID   string    `json:"requestId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// HandleListActivity lists recent activity, optionally for one checklist.
// Query: checklistId (optional), limit (1..100, default 20).
func (h *Handler) HandleListActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid activity query",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	events, err := h.reader.ListRecent(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list activity",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list activity"))
		return
	}

	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	httputil.WriteList(w, out)
}

func parseFilter(q url.Values) (activity.Filter, error) {
	filter := activity.Filter{Limit: activity.DefaultListLimit}
	var errs criterio.FieldErrorsBuilder

	if raw := q.Get("checklistId"); raw != "" {
		checklistID, err := id.ParseChecklistID(raw)
		if err != nil {
			errs = errs.Append("checklistId", dErrors.New(dErrors.CodeValidation, "invalid checklist id"))
		}
		filter.ChecklistID = checklistID
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > activity.MaxListLimit {
			errs = errs.Append("limit", dErrors.New(dErrors.CodeValidation, "limit must be between 1 and "+strconv.Itoa(activity.MaxListLimit)))
		} else {
			filter.Limit = limit
		}
	}

	return filter, httputil.ValidationError(errs.ToError())
}

func toEventResponse(e activity.Event) EventResponse {
	resp := EventResponse{
		ID:          e.ID.String(),
		Action:      string(e.Action),
		ChecklistID: e.ChecklistID.String(),
		RequestID:   e.RequestID,
		Timestamp:   e.Timestamp,
	}
	if e.ItemID != nil {
		itemID := e.ItemID.String()
		resp.ItemID = &itemID
	}
	return resp
}
