package activity

import (
	"time"

	id "triplist/pkg/domain"
)

// Action names a state change recorded in the activity feed.
type Action string

const (
	ActionChecklistCreated  Action = "checklist_created"
	ActionChecklistUpdated  Action = "checklist_updated"
	ActionChecklistDeleted  Action = "checklist_deleted"
	ActionItemCreated       Action = "item_created"
	ActionItemUpdated       Action = "item_updated"
	ActionItemStatusToggled Action = "item_status_toggled"
	ActionItemDeleted       Action = "item_deleted"
)

// Event is emitted from the checklist service after a successful mutation.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID          id.EventID     `json:"id"`
	Action      Action         `json:"action"`
	ChecklistID id.ChecklistID `json:"checklistId"`
	ItemID      *id.ItemID     `json:"itemId,omitempty"`
	RequestID   string         `json:"requestId,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// Filter narrows a feed listing. A nil-UUID ChecklistID lists every checklist.
type Filter struct {
	ChecklistID id.ChecklistID
	Limit       int
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)
