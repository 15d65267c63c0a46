package requestlimit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"triplist/internal/platform/config"
	"triplist/internal/ratelimit/metrics"
	"triplist/internal/ratelimit/models"
	"triplist/internal/ratelimit/store/bucket"
	dErrors "triplist/pkg/domain-errors"
	"triplist/pkg/requestcontext"
)

type brokenStore struct {
	*bucket.InMemoryBucketStore
}

func (brokenStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("dial tcp: connection refused")
}

type RequestLimitSuite struct {
	suite.Suite
	store   *bucket.InMemoryBucketStore
	metrics *metrics.Metrics
	logs    *bytes.Buffer
	service *Service
	ctx     context.Context
}

func TestRequestLimitSuite(t *testing.T) {
	suite.Run(t, new(RequestLimitSuite))
}

func (s *RequestLimitSuite) SetupTest() {
	s.store = bucket.NewInMemoryBucketStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.logs = &bytes.Buffer{}
	cfg := config.RateLimitConfig{Enabled: true, ReadLimit: 3, WriteLimit: 2, Window: time.Minute}

	var err error
	s.service, err = New(s.store, cfg,
		WithLogger(slog.New(slog.NewJSONHandler(s.logs, nil))),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	s.ctx = requestcontext.WithRequestID(context.Background(), "req-limit")
}

func (s *RequestLimitSuite) TestRequiresStore() {
	_, err := New(nil, config.RateLimitConfig{})
	s.Require().Error(err)
}

func (s *RequestLimitSuite) TestCheckIP() {
	s.Run("classes have separate budgets", func() {
		for range 2 {
			result, err := s.service.CheckIP(s.ctx, "10.0.0.1", models.ClassWrite)
			s.Require().NoError(err)
			s.True(result.Allowed)
		}
		result, err := s.service.CheckIP(s.ctx, "10.0.0.1", models.ClassWrite)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(2, result.Limit)
		s.Positive(result.RetryAfter)

		result, err = s.service.CheckIP(s.ctx, "10.0.0.1", models.ClassRead)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(3, result.Limit)
	})

	s.Run("clients have separate budgets", func() {
		result, err := s.service.CheckIP(s.ctx, "10.0.0.2", models.ClassWrite)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})

	s.Run("rejection is audited and counted", func() {
		s.Contains(s.logs.String(), `"action":"ip_rate_limit_exceeded"`)
		s.Contains(s.logs.String(), `"request_id":"req-limit"`)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.Rejections.WithLabelValues("write")))
	})
}

func (s *RequestLimitSuite) TestUnconfiguredClassDenied() {
	result, err := s.service.CheckIP(s.ctx, "10.0.0.1", models.EndpointClass("admin"))
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Equal(60, result.RetryAfter)
	s.Contains(s.logs.String(), "rate_limit_config_missing")
}

func (s *RequestLimitSuite) TestWithLimitOverridesOneClass() {
	svc, err := New(bucket.NewInMemoryBucketStore(),
		config.RateLimitConfig{ReadLimit: 5, WriteLimit: 5, Window: time.Minute},
		WithLimit(models.ClassWrite, models.Limit{RequestsPerWindow: 1, Window: time.Minute}),
	)
	s.Require().NoError(err)

	result, err := svc.CheckIP(s.ctx, "10.0.0.9", models.ClassWrite)
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(1, result.Limit)

	result, err = svc.CheckIP(s.ctx, "10.0.0.9", models.ClassWrite)
	s.Require().NoError(err)
	s.False(result.Allowed)

	result, err = svc.CheckIP(s.ctx, "10.0.0.9", models.ClassRead)
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(5, result.Limit)
}

func (s *RequestLimitSuite) TestStoreErrorWrapped() {
	svc, err := New(brokenStore{bucket.NewInMemoryBucketStore()}, config.RateLimitConfig{ReadLimit: 1, WriteLimit: 1, Window: time.Minute},
		WithMetrics(s.metrics))
	s.Require().NoError(err)

	_, err = svc.CheckIP(s.ctx, "10.0.0.1", models.ClassRead)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StoreErrors))
}
