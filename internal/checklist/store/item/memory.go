// Package item holds the in-memory checklist item store.
//
// Every mutation that changes how many items a checklist has, or how many of
// them are verified, recomputes both counts from the item set and pushes them
// to the checklist store before returning. The push happens while the item
// lock is still held, so no reader can observe items and counters that
// disagree. Lock order is always item store then checklist store.
package item

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"triplist/internal/checklist/models"
	id "triplist/pkg/domain"
	"triplist/pkg/platform/sentinel"
	"triplist/pkg/requestcontext"
)

// CountSyncer receives recomputed item counters for a checklist.
// Implementations must not call back into the item store.
type CountSyncer interface {
	SyncItemCounts(ctx context.Context, checklistID id.ChecklistID, total, verified int)
}

// InMemory stores items by id and keeps a per-checklist slice ordered by Order.
type InMemory struct {
	mu          sync.RWMutex
	items       map[id.ItemID]*models.Item
	byChecklist map[id.ChecklistID][]*models.Item
	counts      CountSyncer
	capacity    int
}

type Option func(*InMemory)

// WithCapacity overrides the per-checklist item limit.
func WithCapacity(n int) Option {
	return func(s *InMemory) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func NewInMemory(counts CountSyncer, opts ...Option) *InMemory {
	s := &InMemory{
		items:       make(map[id.ItemID]*models.Item),
		byChecklist: make(map[id.ChecklistID][]*models.Item),
		counts:      counts,
		capacity:    models.MaxItemsPerChecklist,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create appends a pending item at the end of its checklist.
func (s *InMemory) Create(ctx context.Context, checklistID id.ChecklistID, name string, observation *string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	siblings := s.byChecklist[checklistID]
	if len(siblings) >= s.capacity {
		return nil, fmt.Errorf("checklist %s holds %d items: %w", checklistID, len(siblings), sentinel.ErrLimitExceeded)
	}

	maxOrder := 0
	for _, it := range siblings {
		if it.Order > maxOrder {
			maxOrder = it.Order
		}
	}

	now := requestcontext.Now(ctx)
	it := &models.Item{
		ID:          id.NewItemID(),
		ChecklistID: checklistID,
		Name:        name,
		Observation: cloneString(observation),
		Order:       maxOrder + 1,
		Status:      models.ItemStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.items[it.ID] = it
	s.byChecklist[checklistID] = append(siblings, it)

	s.syncCountsLocked(ctx, checklistID)
	return it.Clone(), nil
}

// List returns copies of a checklist's items in display order. Search matches
// name or observation as a case-insensitive substring.
func (s *InMemory) List(_ context.Context, checklistID id.ChecklistID, filter models.ItemFilter) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	siblings := s.byChecklist[checklistID]
	out := make([]*models.Item, 0, len(siblings))
	for _, it := range siblings {
		if filter.Status != "" && it.Status != filter.Status {
			continue
		}
		if search != "" && !matchesSearch(it, search) {
			continue
		}
		out = append(out, it.Clone())
	}
	return out, nil
}

func matchesSearch(it *models.Item, lowered string) bool {
	if strings.Contains(strings.ToLower(it.Name), lowered) {
		return true
	}
	return it.Observation != nil && strings.Contains(strings.ToLower(*it.Observation), lowered)
}

func (s *InMemory) FindByID(_ context.Context, itemID id.ItemID) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, sentinel.ErrNotFound)
	}
	return it.Clone(), nil
}

// Update replaces name and observation. Order, status and counters are untouched.
func (s *InMemory) Update(ctx context.Context, itemID id.ItemID, name string, observation *string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, sentinel.ErrNotFound)
	}
	it.Name = name
	it.Observation = cloneString(observation)
	it.UpdatedAt = requestcontext.Now(ctx)
	return it.Clone(), nil
}

// ToggleStatus flips an item between pending and verified.
func (s *InMemory) ToggleStatus(ctx context.Context, itemID id.ItemID) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, sentinel.ErrNotFound)
	}
	it.Status = it.Status.Toggled()
	it.UpdatedAt = requestcontext.Now(ctx)

	s.syncCountsLocked(ctx, it.ChecklistID)
	return it.Clone(), nil
}

// Delete removes an item and renumbers its remaining siblings to 1..M,
// preserving their relative order.
func (s *InMemory) Delete(ctx context.Context, itemID id.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("item %s: %w", itemID, sentinel.ErrNotFound)
	}

	siblings := s.byChecklist[it.ChecklistID]
	remaining := make([]*models.Item, 0, len(siblings))
	for _, sib := range siblings {
		if sib.ID != itemID {
			remaining = append(remaining, sib)
		}
	}
	delete(s.items, itemID)

	if len(remaining) == 0 {
		delete(s.byChecklist, it.ChecklistID)
	} else {
		resequence(remaining)
		s.byChecklist[it.ChecklistID] = remaining
	}

	s.syncCountsLocked(ctx, it.ChecklistID)
	return nil
}

// DeleteByChecklist removes every item of a checklist and returns how many were removed.
func (s *InMemory) DeleteByChecklist(ctx context.Context, checklistID id.ChecklistID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	siblings := s.byChecklist[checklistID]
	for _, it := range siblings {
		delete(s.items, it.ID)
	}
	delete(s.byChecklist, checklistID)

	s.syncCountsLocked(ctx, checklistID)
	return len(siblings), nil
}

// CountByChecklist returns the total and verified item counts of a checklist.
func (s *InMemory) CountByChecklist(_ context.Context, checklistID id.ChecklistID) (total, verified int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total, verified = countLocked(s.byChecklist[checklistID])
	return total, verified, nil
}

// resequence assigns orders 1..len(items). items is already in display order
// and stays sorted by prior order after a removal.
func resequence(items []*models.Item) {
	for i, it := range items {
		it.Order = i + 1
	}
}

func countLocked(items []*models.Item) (total, verified int) {
	for _, it := range items {
		if it.Status == models.ItemStatusVerified {
			verified++
		}
	}
	return len(items), verified
}

// syncCountsLocked recomputes counters from scratch and pushes them.
// Must be called while holding s.mu for writing.
func (s *InMemory) syncCountsLocked(ctx context.Context, checklistID id.ChecklistID) {
	if s.counts == nil {
		return
	}
	total, verified := countLocked(s.byChecklist[checklistID])
	s.counts.SyncItemCounts(ctx, checklistID, total, verified)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
