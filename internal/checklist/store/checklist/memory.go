// Package checklist holds the in-memory checklist store.
//
// The store owns checklist records and their denormalized item counters. It
// never reads item state; the item store pushes recomputed counts through
// SyncItemCounts.
package checklist

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"triplist/internal/checklist/models"
	id "triplist/pkg/domain"
	"triplist/pkg/platform/sentinel"
	"triplist/pkg/requestcontext"
)

// collationLocale orders names the way the frontend's users read them.
var collationLocale = language.BrazilianPortuguese

type record struct {
	checklist *models.Checklist
	seq       uint64
}

// InMemory is a process-lifetime checklist store guarded by a single RWMutex.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.ChecklistID]*record
	names   map[string]id.ChecklistID
	nextSeq uint64
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[id.ChecklistID]*record),
		names:   make(map[string]id.ChecklistID),
	}
}

func nameKey(name string) string {
	return strings.ToLower(name)
}

// Create inserts c if no other checklist has the same name, compared case-insensitively.
func (s *InMemory) Create(_ context.Context, c *models.Checklist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := nameKey(c.Name)
	if _, taken := s.names[key]; taken {
		return fmt.Errorf("checklist name %q: %w", c.Name, sentinel.ErrConflict)
	}
	if _, exists := s.records[c.ID]; exists {
		return fmt.Errorf("checklist %s: %w", c.ID, sentinel.ErrConflict)
	}

	s.nextSeq++
	s.records[c.ID] = &record{checklist: c.Clone(), seq: s.nextSeq}
	s.names[key] = c.ID
	return nil
}

// List returns copies of all checklists matching filter, ordered by filter.Sort.
func (s *InMemory) List(_ context.Context, filter models.ChecklistFilter) ([]*models.Checklist, error) {
	s.mu.RLock()
	matched := make([]*record, 0, len(s.records))
	for _, r := range s.records {
		if filter.TripType != "" && r.checklist.TripType != filter.TripType {
			continue
		}
		matched = append(matched, &record{checklist: r.checklist.Clone(), seq: r.seq})
	}
	s.mu.RUnlock()

	sortRecords(matched, filter.Sort)

	out := make([]*models.Checklist, len(matched))
	for i, r := range matched {
		out[i] = r.checklist
	}
	return out, nil
}

// sortRecords orders records in place. Insertion sequence breaks ties so
// checklists created within the same instant keep a stable order.
func sortRecords(records []*record, order models.SortOrder) {
	switch order {
	case models.SortOldest:
		sort.Slice(records, func(i, j int) bool {
			a, b := records[i], records[j]
			if !a.checklist.CreatedAt.Equal(b.checklist.CreatedAt) {
				return a.checklist.CreatedAt.Before(b.checklist.CreatedAt)
			}
			return a.seq < b.seq
		})
	case models.SortNameAsc, models.SortNameDesc:
		// Collators keep internal buffers and are not safe for concurrent use.
		col := collate.New(collationLocale)
		desc := order == models.SortNameDesc
		sort.Slice(records, func(i, j int) bool {
			a, b := records[i], records[j]
			cmp := col.CompareString(a.checklist.Name, b.checklist.Name)
			if cmp == 0 {
				return a.seq < b.seq
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	default:
		sort.Slice(records, func(i, j int) bool {
			a, b := records[i], records[j]
			if !a.checklist.CreatedAt.Equal(b.checklist.CreatedAt) {
				return a.checklist.CreatedAt.After(b.checklist.CreatedAt)
			}
			return a.seq > b.seq
		})
	}
}

func (s *InMemory) FindByID(_ context.Context, checklistID id.ChecklistID) (*models.Checklist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[checklistID]
	if !ok {
		return nil, fmt.Errorf("checklist %s: %w", checklistID, sentinel.ErrNotFound)
	}
	return r.checklist.Clone(), nil
}

// Update replaces the mutable fields of a checklist. The name must not collide
// with any other checklist; keeping its own name (in any casing) is allowed.
func (s *InMemory) Update(ctx context.Context, checklistID id.ChecklistID, name string, tripType models.TripType, description *string) (*models.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[checklistID]
	if !ok {
		return nil, fmt.Errorf("checklist %s: %w", checklistID, sentinel.ErrNotFound)
	}

	key := nameKey(name)
	if owner, taken := s.names[key]; taken && owner != checklistID {
		return nil, fmt.Errorf("checklist name %q: %w", name, sentinel.ErrConflict)
	}

	c := r.checklist
	delete(s.names, nameKey(c.Name))
	s.names[key] = checklistID

	c.Name = name
	c.TripType = tripType
	c.Description = cloneString(description)
	c.UpdatedAt = requestcontext.Now(ctx)
	return c.Clone(), nil
}

func (s *InMemory) Delete(_ context.Context, checklistID id.ChecklistID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[checklistID]
	if !ok {
		return fmt.Errorf("checklist %s: %w", checklistID, sentinel.ErrNotFound)
	}
	delete(s.names, nameKey(r.checklist.Name))
	delete(s.records, checklistID)
	return nil
}

// SyncItemCounts overwrites the item counters of a checklist. It is idempotent
// and silently ignores checklists that no longer exist.
func (s *InMemory) SyncItemCounts(ctx context.Context, checklistID id.ChecklistID, total, verified int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[checklistID]
	if !ok {
		return
	}
	r.checklist.TotalItems = total
	r.checklist.VerifiedItems = verified
	r.checklist.UpdatedAt = requestcontext.Now(ctx)
}

// Count returns the number of stored checklists.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
