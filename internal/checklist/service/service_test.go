package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/trace/noop"

	"triplist/internal/activity"
	activitystore "triplist/internal/activity/store/memory"
	checklistmetrics "triplist/internal/checklist/metrics"
	"triplist/internal/checklist/models"
	checkliststore "triplist/internal/checklist/store/checklist"
	itemstore "triplist/internal/checklist/store/item"
	id "triplist/pkg/domain"
	dErrors "triplist/pkg/domain-errors"
	"triplist/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	checklists *checkliststore.InMemory
	items      *itemstore.InMemory
	events     *activitystore.InMemoryStore
	metrics    *checklistmetrics.Metrics
	service    *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithRequestID(
		requestcontext.WithTime(context.Background(), time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
		"req-test",
	)
	s.checklists = checkliststore.NewInMemory()
	s.items = itemstore.NewInMemory(s.checklists)
	s.events = activitystore.NewInMemoryStore(0)
	s.metrics = checklistmetrics.New(prometheus.NewRegistry())
	s.service = New(s.checklists, s.items,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithActivityPublisher(activity.NewPublisher(s.events)),
		WithMetrics(s.metrics),
		WithTracer(noop.NewTracerProvider().Tracer("checklist-test")),
	)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) mustCreateChecklist(name string) *models.Checklist {
	c, err := s.service.CreateChecklist(s.ctx, ChecklistInput{Name: name, TripType: models.TripTypeBeach})
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) mustCreateItem(checklistID id.ChecklistID, name string) *models.Item {
	it, err := s.service.CreateItem(s.ctx, checklistID, ItemInput{Name: name})
	s.Require().NoError(err)
	return it
}

func (s *ServiceSuite) recentActions() []activity.Action {
	events, err := s.events.ListRecent(s.ctx, activity.Filter{Limit: activity.MaxListLimit})
	s.Require().NoError(err)
	out := make([]activity.Action, len(events))
	for i, e := range events {
		out[i] = e.Action
	}
	return out
}

func (s *ServiceSuite) TestCreateChecklist() {
	s.Run("trims the name and starts with empty counters", func() {
		c, err := s.service.CreateChecklist(s.ctx, ChecklistInput{Name: "  Beach Trip  ", TripType: models.TripTypeBeach})
		s.Require().NoError(err)
		s.Equal("Beach Trip", c.Name)
		s.Zero(c.TotalItems)
		s.Zero(c.Progress())
		s.Equal(requestcontext.Now(s.ctx), c.CreatedAt)
	})

	s.Run("duplicate name differing only in case is a conflict", func() {
		_, err := s.service.CreateChecklist(s.ctx, ChecklistInput{Name: "beach trip", TripType: models.TripTypeCity})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("invalid fields are a validation error", func() {
		_, err := s.service.CreateChecklist(s.ctx, ChecklistInput{Name: "ab", TripType: "Space"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ChecklistsCreated))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ChecklistsTotal))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.RejectedOperations.WithLabelValues("create_checklist", "duplicate_name")))
}

func (s *ServiceSuite) TestUpdateChecklist() {
	c := s.mustCreateChecklist("Lisbon Weekend")
	other := s.mustCreateChecklist("Camping Gear")

	s.Run("updates fields and keeps counters", func() {
		s.mustCreateItem(c.ID, "Passport")
		desc := "two nights"
		updated, err := s.service.UpdateChecklist(s.ctx, c.ID, ChecklistInput{Name: "Lisbon Long Weekend", TripType: models.TripTypeCity, Description: &desc})
		s.Require().NoError(err)
		s.Equal("Lisbon Long Weekend", updated.Name)
		s.Equal(models.TripTypeCity, updated.TripType)
		s.Equal(1, updated.TotalItems)
	})

	s.Run("taking another checklist's name is a conflict", func() {
		_, err := s.service.UpdateChecklist(s.ctx, c.ID, ChecklistInput{Name: other.Name, TripType: models.TripTypeCity})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown checklist is not found", func() {
		_, err := s.service.UpdateChecklist(s.ctx, id.NewChecklistID(), ChecklistInput{Name: "Nowhere", TripType: models.TripTypeOther})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestItemLifecycle() {
	c := s.mustCreateChecklist("Beach Trip")
	sunscreen := s.mustCreateItem(c.ID, "Sunscreen")
	s.mustCreateItem(c.ID, "Towel")

	toggled, err := s.service.ToggleItemStatus(s.ctx, sunscreen.ID)
	s.Require().NoError(err)
	s.Equal(models.ItemStatusVerified, toggled.Status)

	got, err := s.service.GetChecklist(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(2, got.TotalItems)
	s.Equal(1, got.VerifiedItems)
	s.Equal(50, got.Progress())

	s.Require().NoError(s.service.DeleteItem(s.ctx, sunscreen.ID))

	items, err := s.service.ListItems(s.ctx, c.ID, models.ItemFilter{})
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Towel", items[0].Name)
	s.Equal(1, items[0].Order)

	got, err = s.service.GetChecklist(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(1, got.TotalItems)
	s.Zero(got.VerifiedItems)

	s.Equal([]activity.Action{
		activity.ActionItemDeleted,
		activity.ActionItemStatusToggled,
		activity.ActionItemCreated,
		activity.ActionItemCreated,
		activity.ActionChecklistCreated,
	}, s.recentActions())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ItemStatusToggled.WithLabelValues("verificado")))
}

func (s *ServiceSuite) TestCreateItemErrors() {
	c := s.mustCreateChecklist("Business Trip")

	s.Run("unknown checklist", func() {
		_, err := s.service.CreateItem(s.ctx, id.NewChecklistID(), ItemInput{Name: "Laptop"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("invalid name", func() {
		_, err := s.service.CreateItem(s.ctx, c.ID, ItemInput{Name: " x "})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("capacity reached", func() {
		for range models.MaxItemsPerChecklist {
			s.mustCreateItem(c.ID, "Item")
		}
		_, err := s.service.CreateItem(s.ctx, c.ID, ItemInput{Name: "One too many"})
		s.True(dErrors.HasCode(err, dErrors.CodeCapacityExceeded))
	})
}

func (s *ServiceSuite) TestListItemsUnknownChecklist() {
	_, err := s.service.ListItems(s.ctx, id.NewChecklistID(), models.ItemFilter{})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUnknownItem() {
	missing := id.NewItemID()

	_, err := s.service.GetItem(s.ctx, missing)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.UpdateItem(s.ctx, missing, ItemInput{Name: "Hat"})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.ToggleItemStatus(s.ctx, missing)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.True(dErrors.HasCode(s.service.DeleteItem(s.ctx, missing), dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeleteChecklistCascades() {
	keep := s.mustCreateChecklist("Keep Me")
	kept := s.mustCreateItem(keep.ID, "Keys")
	doomed := s.mustCreateChecklist("Delete Me")
	doomedItem := s.mustCreateItem(doomed.ID, "Map")
	s.mustCreateItem(doomed.ID, "Compass")

	s.Require().NoError(s.service.DeleteChecklist(s.ctx, doomed.ID))

	_, err := s.service.GetChecklist(s.ctx, doomed.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.GetItem(s.ctx, doomedItem.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.GetItem(s.ctx, kept.ID)
	s.NoError(err)

	s.True(dErrors.HasCode(s.service.DeleteChecklist(s.ctx, doomed.ID), dErrors.CodeNotFound))
	s.Equal(float64(2), testutil.ToFloat64(s.metrics.ItemsCascaded))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ChecklistsTotal))
}

func (s *ServiceSuite) TestActivityCarriesRequestID() {
	c := s.mustCreateChecklist("Cruise")

	events, err := s.events.ListRecent(s.ctx, activity.Filter{ChecklistID: c.ID})
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal("req-test", events[0].RequestID)
	s.Equal(c.ID, events[0].ChecklistID)
	s.Nil(events[0].ItemID)
}

// Item creates racing a checklist delete must never leave items behind
// under a missing checklist.
func (s *ServiceSuite) TestConcurrentCreateAndDeleteLeavesNoOrphans() {
	c := s.mustCreateChecklist("Race Condition")

	var wg sync.WaitGroup
	created := make(chan id.ItemID, 40)
	for range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			it, err := s.service.CreateItem(s.ctx, c.ID, ItemInput{Name: "Racer"})
			if err == nil {
				created <- it.ID
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.service.DeleteChecklist(s.ctx, c.ID)
	}()
	wg.Wait()
	close(created)

	for itemID := range created {
		_, err := s.service.GetItem(s.ctx, itemID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "item %s survived its checklist", itemID)
	}
}

func (s *ServiceSuite) TestCancelledContextTimesOut() {
	c := s.mustCreateChecklist("Cancelled")
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.service.CreateItem(ctx, c.ID, ItemInput{Name: "Too late"})
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}
