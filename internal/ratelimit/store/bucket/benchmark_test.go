package bucket

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

// BenchmarkAllowN measures single-threaded throughput
func BenchmarkAllowN(b *testing.B) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()

	for b.Loop() {
		_, _ = store.AllowN(ctx, "ip:bench:read", 1, 1000, time.Minute)
	}
}

// BenchmarkAllowN_Parallel measures contention on a single key
func BenchmarkAllowN_Parallel(b *testing.B) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = store.AllowN(ctx, "ip:bench:read", 1, 1000, time.Minute)
		}
	})
}

// BenchmarkAllowN_HighCardinality measures many distinct client IPs with sweeping enabled
func BenchmarkAllowN_HighCardinality(b *testing.B) {
	store := NewInMemoryBucketStore(WithMaxBuckets(10_000))
	ctx := context.Background()
	var counter atomic.Int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1)
			key := fmt.Sprintf("ip:10.0.%d.%d:write", (i/256)%256, i%256)
			_, _ = store.AllowN(ctx, key, 1, 100, time.Minute)
		}
	})
}
