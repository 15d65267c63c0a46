package bucket

import (
	"context"
	"log/slog"
	"time"

	"triplist/internal/ratelimit/metrics"
	"triplist/internal/ratelimit/models"
	"triplist/internal/ratelimit/ports"
	"triplist/pkg/platform/circuit"
)

// FallbackStore serves from the primary store until it keeps failing, then
// switches to a local store until the primary recovers. Counts are not
// migrated between the two.
type FallbackStore struct {
	primary  ports.BucketStore
	fallback ports.BucketStore
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type FallbackOption func(*FallbackStore)

func WithFallbackLogger(logger *slog.Logger) FallbackOption {
	return func(s *FallbackStore) {
		s.logger = logger
	}
}

func WithFallbackMetrics(m *metrics.Metrics) FallbackOption {
	return func(s *FallbackStore) {
		s.metrics = m
	}
}

func WithBreaker(b *circuit.Breaker) FallbackOption {
	return func(s *FallbackStore) {
		s.breaker = b
	}
}

func NewFallback(primary, fallback ports.BucketStore, opts ...FallbackOption) *FallbackStore {
	s := &FallbackStore{
		primary:  primary,
		fallback: fallback,
		breaker:  circuit.New("ratelimit-buckets"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FallbackStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN always probes the primary so the breaker can observe recovery.
// Before the breaker opens, primary errors are returned to the caller.
func (s *FallbackStore) AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.RateLimitResult, error) {
	result, err := s.primary.AllowN(ctx, key, cost, limit, window)
	if err != nil {
		useFallback, change := s.breaker.RecordFailure()
		if change.Opened {
			s.logger.WarnContext(ctx, "bucket store circuit opened, using in-memory fallback",
				"breaker", s.breaker.Name(),
				"error", err,
			)
			s.setFallbackActive(true)
		}
		if !useFallback {
			return nil, err
		}
		return s.fallback.AllowN(ctx, key, cost, limit, window)
	}

	usePrimary, change := s.breaker.RecordSuccess()
	if change.Closed {
		s.logger.InfoContext(ctx, "bucket store circuit closed", "breaker", s.breaker.Name())
		s.setFallbackActive(false)
	}
	if !usePrimary {
		return s.fallback.AllowN(ctx, key, cost, limit, window)
	}
	return result, nil
}

func (s *FallbackStore) Reset(ctx context.Context, key string) error {
	_ = s.fallback.Reset(ctx, key)
	return s.primary.Reset(ctx, key)
}

func (s *FallbackStore) GetCurrentCount(ctx context.Context, key string) (int, error) {
	if s.breaker.IsOpen() {
		return s.fallback.GetCurrentCount(ctx, key)
	}
	return s.primary.GetCurrentCount(ctx, key)
}

// Degraded reports whether the fallback is serving.
func (s *FallbackStore) Degraded() bool {
	return s.breaker.IsOpen()
}

func (s *FallbackStore) setFallbackActive(active bool) {
	if s.metrics != nil {
		s.metrics.SetFallbackActive(active)
	}
}
