package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"triplist/internal/activity"
	id "triplist/pkg/domain"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore(3)
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) append(checklistID id.ChecklistID, action activity.Action, at time.Time) {
	s.Require().NoError(s.store.Append(s.ctx, activity.Event{
		ID:          id.NewEventID(),
		Action:      action,
		ChecklistID: checklistID,
		Timestamp:   at,
	}))
}

func (s *InMemoryStoreSuite) TestListRecent() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a, b := id.NewChecklistID(), id.NewChecklistID()
	s.append(a, activity.ActionChecklistCreated, base)
	s.append(b, activity.ActionChecklistCreated, base.Add(time.Second))
	s.append(a, activity.ActionItemCreated, base.Add(2*time.Second))

	s.Run("newest first across checklists", func() {
		events, err := s.store.ListRecent(s.ctx, activity.Filter{})
		s.Require().NoError(err)
		s.Require().Len(events, 3)
		s.Equal(activity.ActionItemCreated, events[0].Action)
		s.Equal(b, events[1].ChecklistID)
	})

	s.Run("filters by checklist", func() {
		events, err := s.store.ListRecent(s.ctx, activity.Filter{ChecklistID: a})
		s.Require().NoError(err)
		s.Len(events, 2)
	})

	s.Run("honours limit", func() {
		events, err := s.store.ListRecent(s.ctx, activity.Filter{Limit: 1})
		s.Require().NoError(err)
		s.Len(events, 1)
	})

	s.Run("evicts oldest beyond capacity", func() {
		s.append(b, activity.ActionItemDeleted, base.Add(3*time.Second))

		events, err := s.store.ListRecent(s.ctx, activity.Filter{Limit: 10})
		s.Require().NoError(err)
		s.Require().Len(events, 3)
		s.Equal(activity.ActionItemDeleted, events[0].Action)
		s.Equal(base.Add(time.Second), events[2].Timestamp)
	})
}
