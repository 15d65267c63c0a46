package service

import (
	"context"
	"sync"
	"time"

	id "triplist/pkg/domain"
	dErrors "triplist/pkg/domain-errors"
)

// numChecklistShards is the number of mutexes orchestration is spread over.
// Operations on checklists hashing to different shards never contend.
const numChecklistShards = 128

// defaultChecklistTxTimeout bounds how long an orchestration step may run
// when the caller supplied no deadline.
const defaultChecklistTxTimeout = 5 * time.Second

// shardedChecklistTx serializes multi-step operations on the same checklist,
// such as cascade delete against concurrent item creation.
type shardedChecklistTx struct {
	shards  [numChecklistShards]sync.Mutex
	timeout time.Duration
}

func newShardedChecklistTx(timeout time.Duration) *shardedChecklistTx {
	return &shardedChecklistTx{timeout: timeout}
}

func (t *shardedChecklistTx) RunInTx(ctx context.Context, checklistID id.ChecklistID, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultChecklistTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := selectShard(checklistID)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation aborted: context cancelled")
	}

	return fn(ctx)
}

func selectShard(checklistID id.ChecklistID) int {
	return int(hashChecklistID(checklistID) % numChecklistShards)
}

// hashChecklistID is FNV-1a over the raw UUID bytes.
func hashChecklistID(checklistID id.ChecklistID) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for _, b := range checklistID {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return h
}
