package bucket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"triplist/internal/ratelimit/models"
)

const redisKeyPrefix = "triplist:ratelimit:"

// RedisBucketStore implements a fixed window per key shared by every replica.
// Each window is one counter whose TTL marks the window end.
type RedisBucketStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedis creates a Redis-backed bucket store.
func NewRedis(client redis.Cmdable) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN increments the window counter and reads its TTL in one MULTI/EXEC.
// The first increment of a window (or a counter that lost its TTL) sets the expiry.
// Denied requests are refunded so they do not count against the window.
func (s *RedisBucketStore) AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.RateLimitResult, error) {
	k := redisKeyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.IncrBy(ctx, k, int64(cost))
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("increment bucket %s: %w", key, err)
	}

	count := int(incr.Val())
	remainingTTL := ttl.Val()
	if count == cost || remainingTTL < 0 {
		if err := s.client.PExpire(ctx, k, window).Err(); err != nil {
			return nil, fmt.Errorf("expire bucket %s: %w", key, err)
		}
		remainingTTL = window
	}

	now := s.now()
	resetAt := now.Add(remainingTTL)

	if count <= limit {
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - count,
			ResetAt:   resetAt,
		}, nil
	}

	if err := s.client.DecrBy(ctx, k, int64(cost)).Err(); err != nil {
		return nil, fmt.Errorf("refund bucket %s: %w", key, err)
	}
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  max(limit-(count-cost), 0),
		ResetAt:    resetAt,
		RetryAfter: models.RetryAfterSeconds(now, resetAt),
	}, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset bucket %s: %w", key, err)
	}
	return nil
}

func (s *RedisBucketStore) GetCurrentCount(ctx context.Context, key string) (int, error) {
	count, err := s.client.Get(ctx, redisKeyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read bucket %s: %w", key, err)
	}
	return count, nil
}
