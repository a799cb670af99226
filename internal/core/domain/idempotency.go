package domain

import (
	"strings"
	"time"
)

// IdempotencyStatus is the state of an idempotency record.
type IdempotencyStatus string

const (
	IdempotencyLocked    IdempotencyStatus = "locked"
	IdempotencyCompleted IdempotencyStatus = "completed"
)

// IdempotencyRecord guards a single logical submission.
type IdempotencyRecord struct {
	Key       string            `json:"key"`
	Status    IdempotencyStatus `json:"status"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// BuildIdempotencyKey namespaces a caller-supplied key for the payment scope.
func BuildIdempotencyKey(callerKey string) string {
	return "payment:" + strings.TrimSpace(callerKey)
}
