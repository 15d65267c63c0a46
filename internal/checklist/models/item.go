package models

import (
	"time"

	id "triplist/pkg/domain"
)

// MaxItemsPerChecklist bounds how many items a single checklist may hold.
const MaxItemsPerChecklist = 50

// Item is a single entry on a checklist.
//
// Order values of a checklist's items always form the contiguous sequence 1..N.
// Order and Status change only through the store's dedicated operations.
type Item struct {
	ID          id.ItemID
	ChecklistID id.ChecklistID
	Name        string
	Observation *string
	Order       int
	Status      ItemStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy so callers never alias store-owned pointers.
func (i *Item) Clone() *Item {
	cp := *i
	if i.Observation != nil {
		o := *i.Observation
		cp.Observation = &o
	}
	return &cp
}

// ItemFilter narrows an item listing. Zero values disable the filter.
type ItemFilter struct {
	Status ItemStatus
	Search string
}
