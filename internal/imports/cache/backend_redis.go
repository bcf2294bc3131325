package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"census/pkg/domain"
)

const reportKeyPrefix = "census:reports:"

// RedisBackend keeps the reports of an import in one hash that expires ttl
// after its last write.
type RedisBackend struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisBackend(client redis.UniversalClient, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func reportKey(importID domain.ImportID) string {
	return reportKeyPrefix + importID.String()
}

func (b *RedisBackend) Get(ctx context.Context, importID domain.ImportID, field string) ([]byte, bool, error) {
	raw, err := b.client.HGet(ctx, reportKey(importID), field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("hget %s: %w", field, err)
	}
	return raw, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, importID domain.ImportID, field string, value []byte) error {
	key := reportKey(importID)
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, value)
		if b.ttl > 0 {
			pipe.Expire(ctx, key, b.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("hset %s: %w", field, err)
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, importID domain.ImportID) error {
	return b.client.Del(ctx, reportKey(importID)).Err()
}
