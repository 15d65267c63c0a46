package handler

import (
	"time"

	"triplist/internal/checklist/models"
)

// ChecklistResponse is the wire shape of a checklist.
type ChecklistResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"nome"`
	TripType      string    `json:"tipoViagem"`
	Description   *string   `json:"descricao"`
	CreatedAt     time.Time `json:"dataCriacao"`
	UpdatedAt     time.Time `json:"dataAtualizacao"`
	TotalItems    int       `json:"totalItens"`
	VerifiedItems int       `json:"itensVerificados"`
	Progress      int       `json:"progresso"`
}

// ItemResponse is the wire shape of a checklist item.
type ItemResponse struct {
	ID          string  `json:"id"`
	ChecklistID string  `json:"checklistId"`
	Name        string  `json:"nome"`
	Observation *string `json:"observacao"`
	Order       int     `json:"ordem"`
	Status      string  `json:"status"`
}

func toChecklistResponse(c *models.Checklist) ChecklistResponse {
	return ChecklistResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		TripType:      c.TripType.String(),
		Description:   c.Description,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		TotalItems:    c.TotalItems,
		VerifiedItems: c.VerifiedItems,
		Progress:      c.Progress(),
	}
}

func toChecklistResponses(list []*models.Checklist) []ChecklistResponse {
	out := make([]ChecklistResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toChecklistResponse(c))
	}
	return out
}

func toItemResponse(it *models.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID.String(),
		ChecklistID: it.ChecklistID.String(),
		Name:        it.Name,
		Observation: it.Observation,
		Order:       it.Order,
		Status:      it.Status.String(),
	}
}

func toItemResponses(items []*models.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}
