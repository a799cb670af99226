package memory

import (
	"context"
	"sync"
	"time"

	"payflow/internal/core/domain"
)

type idemEntry struct {
	status    domain.IdempotencyStatus
	expiresAt time.Time
}

// IdempotencyStore is a single-process IdempotencyStore with TTL expiry.
// Use the redis store when more than one instance shares keys.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idemEntry
	now     func() time.Time
}

// NewIdempotencyStore creates an empty IdempotencyStore.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: make(map[string]idemEntry), now: time.Now}
}

func (s *IdempotencyStore) SetNX(ctx context.Context, key string, status domain.IdempotencyStatus, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.entries[key] = idemEntry{status: status, expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *IdempotencyStore) Set(ctx context.Context, key string, status domain.IdempotencyStatus, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = idemEntry{status: status, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *IdempotencyStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return nil, nil
	}
	return &domain.IdempotencyRecord{Key: key, Status: e.status, ExpiresAt: e.expiresAt}, nil
}

// live returns the entry for key, evicting it first if it has expired.
// Callers hold s.mu.
func (s *IdempotencyStore) live(key string) (idemEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return idemEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return idemEntry{}, false
	}
	return e, true
}
