package service

import (
	"context"
	"fmt"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/rs/zerolog"
)

// IdempotencyLock dedupes submissions sharing a caller-supplied key.
type IdempotencyLock struct {
	store ports.IdempotencyStore
	ttl   time.Duration
	log   zerolog.Logger
}

// NewIdempotencyLock creates a lock whose records live for ttl.
func NewIdempotencyLock(store ports.IdempotencyStore, ttl time.Duration, log zerolog.Logger) *IdempotencyLock {
	return &IdempotencyLock{store: store, ttl: ttl, log: log}
}

// Acquire returns true only for the first caller of key. A store error
// fails closed and is reported as a duplicate.
func (l *IdempotencyLock) Acquire(ctx context.Context, key string) bool {
	ok, err := l.store.SetNX(ctx, key, domain.IdempotencyLocked, l.ttl)
	if err != nil {
		l.log.Error().Err(err).Str("idempotency_key", key).Msg("idempotency store unavailable, rejecting submission")
		return false
	}
	return ok
}

// Release removes a lock. Only valid before any external side effect fired.
func (l *IdempotencyLock) Release(ctx context.Context, key string) error {
	if err := l.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("releasing idempotency key: %w", err)
	}
	return nil
}

// Complete marks the key as finished so later duplicates still collide.
func (l *IdempotencyLock) Complete(ctx context.Context, key string) error {
	if err := l.store.Set(ctx, key, domain.IdempotencyCompleted, l.ttl); err != nil {
		return fmt.Errorf("completing idempotency key: %w", err)
	}
	return nil
}
