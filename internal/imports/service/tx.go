package service

import (
	"context"
	"sync"
	"time"

	"census/pkg/domain"
	dErrors "census/pkg/domain-errors"
)

// numImportShards spreads imports over independent locks so patches to
// different imports rarely contend.
const numImportShards = 128

// defaultImportTxTimeout is the maximum duration for an import transaction.
const defaultImportTxTimeout = 30 * time.Second

// ShardedTx serialises transactions per import over a store without native
// transactions. Each Store call remains individually atomic.
type ShardedTx struct {
	shards  [numImportShards]sync.Mutex
	store   Store
	timeout time.Duration
}

// NewShardedTx wraps store. A zero timeout uses the default.
func NewShardedTx(store Store, timeout time.Duration) *ShardedTx {
	return &ShardedTx{store: store, timeout: timeout}
}

func (t *ShardedTx) RunInTx(ctx context.Context, importID domain.ImportID, fn func(store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultImportTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if importID != NewImport {
		shard := shardFor(importID)
		t.shards[shard].Lock()
		defer t.shards[shard].Unlock()
	}

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(t.store)
}

// shardFor hashes the id with FNV-1a over its eight little-endian bytes.
func shardFor(importID domain.ImportID) int {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	v := uint64(importID)
	for i := 0; i < 8; i++ {
		h ^= uint32(v & 0xff)
		h *= fnvPrime
		v >>= 8
	}
	return int(h % numImportShards)
}
