package handler

import (
	"errors"
	"net/url"
	"strings"

	"github.com/hay-kot/criterio"

	"triplist/internal/checklist/models"
	"triplist/internal/checklist/service"
	id "triplist/pkg/domain"
	dErrors "triplist/pkg/domain-errors"
	"triplist/pkg/platform/httputil"
)

// ChecklistRequest is the body for POST /checklist and PUT /checklist/{id}.
type ChecklistRequest struct {
	Name        string  `json:"nome"`
	TripType    string  `json:"tipoViagem"`
	Description *string `json:"descricao"`
}

// Validate implements httputil.Validatable.
func (r *ChecklistRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return httputil.ValidationError(criterio.ValidateStruct(
		criterio.Run("nome", r.Name, models.ChecklistName),
		criterio.Run("tipoViagem", models.TripType(r.TripType), models.TripTypeValue),
		criterio.Run("descricao", r.Description, models.FreeText),
	))
}

func (r *ChecklistRequest) input() service.ChecklistInput {
	return service.ChecklistInput{
		Name:        r.Name,
		TripType:    models.TripType(r.TripType),
		Description: r.Description,
	}
}

// CreateItemRequest is the body for POST /checklist-item.
type CreateItemRequest struct {
	ChecklistID string  `json:"checklistId"`
	Name        string  `json:"nome"`
	Observation *string `json:"observacao"`

	parsedChecklistID id.ChecklistID
}

// Validate implements httputil.Validatable.
func (r *CreateItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	var errs criterio.FieldErrorsBuilder
	checklistID, err := id.ParseChecklistID(r.ChecklistID)
	if err != nil {
		errs = errs.Append("checklistId", errMessage(err))
	}
	r.parsedChecklistID = checklistID
	if err := models.ItemName(r.Name); err != nil {
		errs = errs.Append("nome", err)
	}
	if err := models.FreeText(r.Observation); err != nil {
		errs = errs.Append("observacao", err)
	}
	return httputil.ValidationError(errs.ToError())
}

// UpdateItemRequest is the body for PUT /checklist-item/{id}.
type UpdateItemRequest struct {
	Name        string  `json:"nome"`
	Observation *string `json:"observacao"`
}

// Validate implements httputil.Validatable.
func (r *UpdateItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return httputil.ValidationError(criterio.ValidateStruct(
		criterio.Run("nome", r.Name, models.ItemName),
		criterio.Run("observacao", r.Observation, models.FreeText),
	))
}

func (r *UpdateItemRequest) input() service.ItemInput {
	return service.ItemInput{Name: r.Name, Observation: r.Observation}
}

// ToggleStatusRequest is the body for POST /checklist-item/toggle-status.
type ToggleStatusRequest struct {
	ItemID string `json:"itemId"`

	parsedItemID id.ItemID
}

// Validate implements httputil.Validatable.
func (r *ToggleStatusRequest) Validate() error {
	itemID, err := id.ParseItemID(r.ItemID)
	if err != nil {
		return httputil.ValidationError(criterio.NewFieldErrors("itemId", errMessage(err)))
	}
	r.parsedItemID = itemID
	return nil
}

// parseChecklistFilter reads tipoViagem and ordenacao from a listing query.
func parseChecklistFilter(q url.Values) (models.ChecklistFilter, error) {
	var filter models.ChecklistFilter
	var errs criterio.FieldErrorsBuilder

	if raw := q.Get("tipoViagem"); raw != "" && raw != models.TripTypeAll {
		tripType, err := models.ParseTripType(raw)
		if err != nil {
			errs = errs.Append("tipoViagem", errMessage(err))
		}
		filter.TripType = tripType
	}

	sort, err := models.ParseSortOrder(q.Get("ordenacao"))
	if err != nil {
		errs = errs.Append("ordenacao", errMessage(err))
	}
	filter.Sort = sort

	return filter, httputil.ValidationError(errs.ToError())
}

// parseItemQuery reads checklistId, status and busca from an item listing query.
func parseItemQuery(q url.Values) (id.ChecklistID, models.ItemFilter, error) {
	var filter models.ItemFilter
	var errs criterio.FieldErrorsBuilder

	checklistID, err := id.ParseChecklistID(q.Get("checklistId"))
	if err != nil {
		errs = errs.Append("checklistId", errMessage(err))
	}

	if raw := q.Get("status"); raw != "" && raw != models.ItemStatusAll {
		status, err := models.ParseItemStatus(raw)
		if err != nil {
			errs = errs.Append("status", errMessage(err))
		}
		filter.Status = status
	}
	filter.Search = strings.TrimSpace(q.Get("busca"))

	return checklistID, filter, httputil.ValidationError(errs.ToError())
}

// errMessage drops any wrapped cause so field details carry only the
// domain error's message.
func errMessage(err error) error {
	if de, ok := dErrors.As(err); ok {
		return errors.New(de.Message)
	}
	return err
}
