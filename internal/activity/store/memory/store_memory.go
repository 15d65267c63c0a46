package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"triplist/internal/activity"
)

// DefaultCapacity is how many events the in-memory feed retains.
const DefaultCapacity = 1000

// InMemoryStore keeps the most recent events, discarding the oldest once full.
type InMemoryStore struct {
	mu       sync.RWMutex
	events   []activity.Event
	capacity int
}

func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryStore{
		events:   make([]activity.Event, 0, capacity),
		capacity: capacity,
	}
}

func (s *InMemoryStore) Append(_ context.Context, event activity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == s.capacity {
		copy(s.events, s.events[1:])
		s.events = s.events[:s.capacity-1]
	}
	s.events = append(s.events, event)
	return nil
}

// ListRecent returns up to filter.Limit events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, filter activity.Filter) ([]activity.Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = activity.DefaultListLimit
	}
	all := uuid.UUID(filter.ChecklistID) == uuid.Nil

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]activity.Event, 0, min(limit, len(s.events)))
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := s.events[i]
		if !all && e.ChecklistID != filter.ChecklistID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
