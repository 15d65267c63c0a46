package requestlimit

import (
	"context"
	"errors"
	"log/slog"

	"triplist/internal/platform/config"
	"triplist/internal/ratelimit/metrics"
	"triplist/internal/ratelimit/models"
	"triplist/internal/ratelimit/ports"
	dErrors "triplist/pkg/domain-errors"
	"triplist/pkg/requestcontext"
)

type BucketStore = ports.BucketStore

// Service applies per-class request budgets to client IPs.
type Service struct {
	buckets BucketStore
	limits  map[models.EndpointClass]models.Limit
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLimit overrides the budget for one class.
func WithLimit(class models.EndpointClass, limit models.Limit) Option {
	return func(s *Service) {
		s.limits[class] = limit
	}
}

// New builds the service with read/write budgets taken from cfg.
func New(buckets BucketStore, cfg config.RateLimitConfig, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}

	svc := &Service{
		buckets: buckets,
		limits: map[models.EndpointClass]models.Limit{
			models.ClassRead:  {RequestsPerWindow: cfg.ReadLimit, Window: cfg.Window},
			models.ClassWrite: {RequestsPerWindow: cfg.WriteLimit, Window: cfg.Window},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckIP consumes one request from the IP's bucket for class.
// A class without a configured budget is denied.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	limit, ok := s.limits[class]
	if !ok || limit.RequestsPerWindow <= 0 || limit.Window <= 0 {
		s.logAudit(ctx, "rate_limit_config_missing",
			"client_ip", ip,
			"endpoint_class", class,
		)
		now := requestcontext.Now(ctx)
		return &models.RateLimitResult{
			Allowed:    false,
			ResetAt:    now,
			RetryAfter: 60,
		}, nil
	}

	key := models.NewRateLimitKey(models.KeyPrefixIP, ip, class)
	result, err := s.buckets.Allow(ctx, key.String(), limit.RequestsPerWindow, limit.Window)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordStoreError()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	if s.metrics != nil {
		s.metrics.RecordCheck(string(class), result.Allowed)
	}
	if !result.Allowed {
		s.logAudit(ctx, "ip_rate_limit_exceeded",
			"client_ip", ip,
			"endpoint_class", class,
			"limit", limit.RequestsPerWindow,
			"window_seconds", int(limit.Window.Seconds()),
		)
	}
	return result, nil
}

func (s *Service) logAudit(ctx context.Context, action string, attrs ...any) {
	args := append(attrs,
		"action", action,
		"log_type", "audit",
		"request_id", requestcontext.RequestID(ctx),
	)
	s.logger.InfoContext(ctx, action, args...)
}
