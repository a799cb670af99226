package redis

import (
	"context"
	"fmt"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimitStore implements ports.RateLimitStore with Redis counters.
type RateLimitStore struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
}

var _ ports.RateLimitStore = (*RateLimitStore)(nil)

// NewRateLimitStore creates a new Redis-backed rate limit store.
func NewRateLimitStore(client *goredis.Client) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		prefix: "payflow:ratelimit:",
		now:    time.Now,
	}
}

// Allow checks if a request is within the rate limit.
// It uses a fixed-window counter: INCR + EXPIRE on a key scoped by windowID,
// where windowID is the unix time divided by the window length.
func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, window time.Duration) (*domain.RateLimitResult, error) {
	windowSecs := int64(window.Seconds())
	if windowSecs < 1 {
		windowSecs = 1
	}
	windowID := s.now().Unix() / windowSecs
	redisKey := fmt.Sprintf("%s%s:%d", s.prefix, key, windowID)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis rate limit incr: %w", err)
	}

	// Set expiry only on first increment (new window), +1s safety margin
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, time.Duration(windowSecs+1)*time.Second).Err(); err != nil {
			return nil, fmt.Errorf("redis rate limit expire: %w", err)
		}
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &domain.RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   (windowID + 1) * windowSecs,
	}, nil
}
