//go:build integration

package bucket_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"triplist/internal/ratelimit/store/bucket"
	"triplist/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *bucket.RedisBucketStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = bucket.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) TearDownSuite() {
	s.redis.Terminate(s.T())
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestAllowUntilLimit() {
	ctx := context.Background()
	for i := range 3 {
		result, err := s.store.Allow(ctx, "ip:1.2.3.4:write", 3, time.Minute)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(3-(i+1), result.Remaining)
	}

	result, err := s.store.Allow(ctx, "ip:1.2.3.4:write", 3, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Equal(3, result.Limit)
	s.Positive(result.RetryAfter)
	s.LessOrEqual(result.RetryAfter, 60)

	count, err := s.store.GetCurrentCount(ctx, "ip:1.2.3.4:write")
	s.Require().NoError(err)
	s.Equal(3, count, "denied request is refunded")
}

func (s *RedisStoreSuite) TestWindowExpires() {
	ctx := context.Background()
	_, err := s.store.Allow(ctx, "ip:short:read", 1, 200*time.Millisecond)
	s.Require().NoError(err)

	s.Eventually(func() bool {
		result, err := s.store.Allow(ctx, "ip:short:read", 1, 200*time.Millisecond)
		return err == nil && result.Allowed
	}, 2*time.Second, 50*time.Millisecond)
}

func (s *RedisStoreSuite) TestReset() {
	ctx := context.Background()
	_, err := s.store.AllowN(ctx, "ip:reset:write", 5, 5, time.Minute)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Reset(ctx, "ip:reset:write"))

	count, err := s.store.GetCurrentCount(ctx, "ip:reset:write")
	s.Require().NoError(err)
	s.Zero(count)
}

// TestConcurrentAllow verifies the counter never admits more than limit.
func (s *RedisStoreSuite) TestConcurrentAllow() {
	ctx := context.Background()
	const limit = 10
	const goroutines = 50

	var wg sync.WaitGroup
	var allowed atomic.Int32
	for range goroutines {
		wg.Go(func() {
			result, err := s.store.Allow(ctx, "ip:concurrent:write", limit, time.Minute)
			if err == nil && result.Allowed {
				allowed.Add(1)
			}
		})
	}
	wg.Wait()

	s.Equal(int32(limit), allowed.Load())
}
