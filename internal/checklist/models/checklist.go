package models

import (
	"math"
	"time"

	id "triplist/pkg/domain"
)

// Checklist is the aggregate root for a trip's packing list.
//
// Invariants:
//   - Name is 3-50 characters from [a-zA-Z0-9 space - _], unique case-insensitively
//   - Description is nil or at most 200 characters
//   - 0 <= VerifiedItems <= TotalItems, both equal to the live item counts
//   - CreatedAt is immutable after construction
//
// TotalItems and VerifiedItems are owned by the item store, which recomputes
// them from scratch after every item mutation and pushes them here.
type Checklist struct {
	ID            id.ChecklistID
	Name          string
	TripType      TripType
	Description   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	TotalItems    int
	VerifiedItems int
}

// NewChecklist validates the mutable fields and returns a checklist with zeroed counters.
func NewChecklist(checklistID id.ChecklistID, name string, tripType TripType, description *string, now time.Time) (*Checklist, error) {
	if err := ValidateChecklistFields(name, tripType, description); err != nil {
		return nil, err
	}
	return &Checklist{
		ID:          checklistID,
		Name:        name,
		TripType:    tripType,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Progress is the share of verified items as a whole percentage, rounding half up.
func (c *Checklist) Progress() int {
	if c.TotalItems <= 0 {
		return 0
	}
	return int(math.Floor(float64(c.VerifiedItems)/float64(c.TotalItems)*100 + 0.5))
}

// Clone returns a deep copy so callers never alias store-owned pointers.
func (c *Checklist) Clone() *Checklist {
	cp := *c
	if c.Description != nil {
		d := *c.Description
		cp.Description = &d
	}
	return &cp
}

// ChecklistFilter narrows and orders a checklist listing. A zero TripType lists all.
type ChecklistFilter struct {
	TripType TripType
	Sort     SortOrder
}
