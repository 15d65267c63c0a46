package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"triplist/internal/activity"
	activityhandler "triplist/internal/activity/handler"
	activitymemory "triplist/internal/activity/store/memory"
	checklisthandler "triplist/internal/checklist/handler"
	"triplist/internal/platform/config"
	ratelimitmetrics "triplist/internal/ratelimit/metrics"
	"triplist/internal/ratelimit/store/bucket"
	"triplist/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	cfg      config.Server
	readyErr error
	router   http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.cfg = config.Default()
	s.readyErr = nil
	s.build()
}

func (s *RouterSuite) build() {
	registry := prometheus.NewRegistry()
	feed := activitymemory.NewInMemoryStore(0)
	router, err := buildRouter(routerDeps{
		cfg:            &s.cfg,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		registry:       registry,
		publisher:      activity.NewPublisher(feed),
		feed:           feed,
		buckets:        bucket.NewInMemoryBucketStore(),
		limiterMetrics: ratelimitmetrics.New(registry),
		ready:          func(context.Context) error { return s.readyErr },
	})
	s.Require().NoError(err)
	s.router = router
}

func (s *RouterSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var payload any
	if body != "" {
		payload = body
	}
	return testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), method, path, payload))
}

func (s *RouterSuite) TestChecklistFlow() {
	rr := s.do(http.MethodPost, apiBasePath+"/checklist", `{"nome":"Ferias no Rio","tipoViagem":"Praia","descricao":null}`)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	s.NotEmpty(rr.Header().Get("X-Request-ID"))
	s.Equal("application/json", rr.Header().Get("Content-Type"))
	checklist := testutil.UnmarshalData[checklisthandler.ChecklistResponse](s.T(), rr)

	rr = s.do(http.MethodPost, apiBasePath+"/checklist-item", `{"checklistId":"`+checklist.ID+`","nome":"Protetor solar"}`)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	item := testutil.UnmarshalData[checklisthandler.ItemResponse](s.T(), rr)
	s.Equal(1, item.Order)

	rr = s.do(http.MethodPost, apiBasePath+"/checklist-item", `{"checklistId":"`+checklist.ID+`","nome":"Chinelo"}`)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	rr = s.do(http.MethodPost, apiBasePath+"/checklist-item/toggle-status", `{"itemId":"`+item.ID+`"}`)
	testutil.AssertStatusOK(s.T(), rr)
	s.Equal("verificado", testutil.UnmarshalData[checklisthandler.ItemResponse](s.T(), rr).Status)

	rr = s.do(http.MethodGet, apiBasePath+"/checklist/"+checklist.ID, "")
	testutil.AssertStatusOK(s.T(), rr)
	got := testutil.UnmarshalData[checklisthandler.ChecklistResponse](s.T(), rr)
	s.Equal(2, got.TotalItems)
	s.Equal(1, got.VerifiedItems)
	s.Equal(50, got.Progress)

	rr = s.do(http.MethodGet, apiBasePath+"/activity?checklistId="+checklist.ID, "")
	testutil.AssertStatusOK(s.T(), rr)
	events := testutil.UnmarshalData[[]activityhandler.EventResponse](s.T(), rr)
	s.Require().Len(events, 4)
	s.Equal("item_status_toggled", events[0].Action)
	s.Equal("checklist_created", events[3].Action)

	rr = s.do(http.MethodDelete, apiBasePath+"/checklist/"+checklist.ID, "")
	testutil.AssertStatusOK(s.T(), rr)

	rr = s.do(http.MethodGet, apiBasePath+"/checklist-item?checklistId="+checklist.ID, "")
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *RouterSuite) TestRequestIDEchoed() {
	req := testutil.NewRequest(s.T(), http.MethodGet, apiBasePath+"/checklist")
	req.Header.Set("X-Request-ID", "trace-123")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	s.Equal("trace-123", rr.Header().Get("X-Request-ID"))
}

func (s *RouterSuite) TestUnknownRouteAndMethod() {
	rr := s.do(http.MethodGet, apiBasePath+"/nope", "")
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")

	rr = s.do(http.MethodPatch, apiBasePath+"/checklist", "")
	testutil.AssertStatusAndError(s.T(), rr, http.StatusMethodNotAllowed, "method_not_allowed")
}

func (s *RouterSuite) TestOperationalEndpoints() {
	s.Run("healthz", func() {
		testutil.AssertStatusOK(s.T(), s.do(http.MethodGet, "/healthz", ""))
	})

	s.Run("readyz ok", func() {
		testutil.AssertStatusOK(s.T(), s.do(http.MethodGet, "/readyz", ""))
	})

	s.Run("readyz failing dependency", func() {
		s.readyErr = errors.New("redis: connection refused")
		rr := s.do(http.MethodGet, "/readyz", "")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, "service_unavailable")
		s.readyErr = nil
	})

	s.Run("metrics", func() {
		s.do(http.MethodGet, apiBasePath+"/checklist", "")
		rr := s.do(http.MethodGet, "/metrics", "")
		s.Equal(http.StatusOK, rr.Code)
		body := rr.Body.String()
		s.Contains(body, "triplist_http_request_duration_seconds")
		s.Contains(body, `route="/api/v1/internal/checklist`)
		s.Contains(body, "triplist_ratelimit_checks_total")
	})
}

func (s *RouterSuite) TestRateLimitedAfterBudget() {
	s.cfg.RateLimit.WriteLimit = 2
	s.build()

	for range 2 {
		rr := s.do(http.MethodPost, apiBasePath+"/checklist", `{"nome":"x","tipoViagem":"Praia"}`)
		s.Equal(http.StatusBadRequest, rr.Code)
	}
	rr := s.do(http.MethodPost, apiBasePath+"/checklist", `{"nome":"x","tipoViagem":"Praia"}`)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusTooManyRequests, "rate_limited")
	s.NotEmpty(rr.Header().Get("Retry-After"))

	testutil.AssertStatusOK(s.T(), s.do(http.MethodGet, apiBasePath+"/checklist", ""))
}

func (s *RouterSuite) TestRateLimitDisabled() {
	s.cfg.RateLimit.Enabled = false
	s.cfg.RateLimit.WriteLimit = 1
	s.build()

	for range 3 {
		rr := s.do(http.MethodPost, apiBasePath+"/checklist", `{"nome":"x","tipoViagem":"Praia"}`)
		s.Equal(http.StatusBadRequest, rr.Code)
	}
}

func (s *RouterSuite) TestCORSPreflight() {
	req := testutil.NewRequest(s.T(), http.MethodOptions, apiBasePath+"/checklist")
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusNoContent, rr.Code)
	s.True(strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost))
}
