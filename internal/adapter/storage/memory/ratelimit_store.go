package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"payflow/internal/core/domain"
)

type window struct {
	id    int64
	count int64
}

// RateLimitStore is a single-process fixed-window counter.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
}

// NewRateLimitStore creates an empty RateLimitStore.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{windows: make(map[string]window), now: time.Now}
}

func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, win time.Duration) (*domain.RateLimitResult, error) {
	secs := int64(win.Seconds())
	if secs < 1 {
		return nil, fmt.Errorf("rate limit window %s is shorter than a second", win)
	}
	id := s.now().Unix() / secs

	s.mu.Lock()
	w := s.windows[key]
	if w.id != id {
		w = window{id: id}
	}
	w.count++
	s.windows[key] = w
	s.mu.Unlock()

	remaining := limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return &domain.RateLimitResult{
		Allowed:   w.count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   (id + 1) * secs,
	}, nil
}
