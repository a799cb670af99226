package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyStore implements ports.IdempotencyStore. The value of each key
// is the record status; expiry is the key TTL.
type IdempotencyStore struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// NewIdempotencyStore creates a new Redis-backed idempotency store.
func NewIdempotencyStore(client *goredis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "payflow:idempotency:",
		now:    time.Now,
	}
}

// SetNX issues SET key status NX PX ttl.
func (s *IdempotencyStore) SetNX(ctx context.Context, key string, status domain.IdempotencyStatus, ttl time.Duration) (bool, error) {
	err := s.client.SetArgs(ctx, s.prefix+key, string(status), goredis.SetArgs{Mode: "NX", TTL: ttl}).Err()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis idempotency setnx: %w", err)
	}
	return true, nil
}

func (s *IdempotencyStore) Set(ctx context.Context, key string, status domain.IdempotencyStatus, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, string(status), ttl).Err(); err != nil {
		return fmt.Errorf("redis idempotency set: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis idempotency del: %w", err)
	}
	return nil
}

// Get returns nil, nil if the key does not exist.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	pipe := s.client.Pipeline()
	get := pipe.Get(ctx, s.prefix+key)
	pttl := pipe.PTTL(ctx, s.prefix+key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("redis idempotency get: %w", err)
	}

	val, err := get.Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis idempotency get: %w", err)
	}

	rec := &domain.IdempotencyRecord{Key: key, Status: domain.IdempotencyStatus(val)}
	if ttl := pttl.Val(); ttl > 0 {
		rec.ExpiresAt = s.now().Add(ttl)
	}
	return rec, nil
}
