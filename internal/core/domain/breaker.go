package domain

import "time"

// BreakerState is the position of a circuit breaker.
type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half-open"
)

// CircuitBreakerState is a point-in-time view of one dependency's breaker.
type CircuitBreakerState struct {
	ServiceName     string       `json:"service_name"`
	FailureCount    int          `json:"failure_count"`
	State           BreakerState `json:"state"`
	LastFailureTime time.Time    `json:"last_failure_time"`
}
