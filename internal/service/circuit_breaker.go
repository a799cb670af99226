package service

import (
	"sort"
	"sync"
	"time"

	"payflow/internal/core/domain"

	"github.com/rs/zerolog"
)

// BreakerConfig configures every breaker created by a BreakerRegistry.
type BreakerConfig struct {
	FailureThreshold int
	Cooldown         time.Duration
}

// CircuitBreaker isolates one failing dependency. Safe for concurrent use.
//
// CLOSED -> OPEN after FailureThreshold consecutive failures. Once Cooldown
// has elapsed, exactly one caller is let through as the HALF_OPEN trial; its
// result closes the breaker or re-opens it.
type CircuitBreaker struct {
	name string
	mu   sync.Mutex

	state         domain.BreakerState
	failureCount  int
	lastFailure   time.Time
	trialInFlight bool

	threshold int
	cooldown  time.Duration
	now       func() time.Time
	onChange  func(name string, state domain.BreakerState)
	log       zerolog.Logger
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(name string, cfg BreakerConfig, log zerolog.Logger) *CircuitBreaker {
	threshold := cfg.FailureThreshold
	if threshold <= 0 {
		threshold = 5
	}
	return &CircuitBreaker{
		name:      name,
		state:     domain.BreakerClosed,
		threshold: threshold,
		cooldown:  cfg.Cooldown,
		now:       time.Now,
		log:       log,
	}
}

// Allow reports whether a call may be attempted now.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case domain.BreakerClosed:
		return true
	case domain.BreakerOpen:
		if cb.now().Sub(cb.lastFailure) < cb.cooldown {
			return false
		}
		cb.setState(domain.BreakerHalfOpen)
		cb.trialInFlight = true
		return true
	case domain.BreakerHalfOpen:
		if cb.trialInFlight {
			return false
		}
		cb.trialInFlight = true
		return true
	default:
		return false
	}
}

// RecordSuccess resets the breaker to CLOSED from any state.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	cb.trialInFlight = false
	if cb.state != domain.BreakerClosed {
		cb.setState(domain.BreakerClosed)
	}
}

// RecordFailure counts a failure and trips the breaker when due. The
// cooldown runs from the failure that opened the breaker; late failures
// from calls admitted before the trip do not extend it.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++

	switch cb.state {
	case domain.BreakerClosed:
		if cb.failureCount >= cb.threshold {
			cb.lastFailure = cb.now()
			cb.setState(domain.BreakerOpen)
		}
	case domain.BreakerHalfOpen:
		cb.trialInFlight = false
		cb.lastFailure = cb.now()
		cb.setState(domain.BreakerOpen)
	}
}

// Snapshot returns the breaker's current state.
func (cb *CircuitBreaker) Snapshot() domain.CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return domain.CircuitBreakerState{
		ServiceName:     cb.name,
		FailureCount:    cb.failureCount,
		State:           cb.state,
		LastFailureTime: cb.lastFailure,
	}
}

// caller holds cb.mu
func (cb *CircuitBreaker) setState(s domain.BreakerState) {
	cb.state = s
	ev := cb.log.Info()
	if s == domain.BreakerOpen {
		ev = cb.log.Warn()
	}
	ev.Str("breaker", cb.name).
		Str("state", string(s)).
		Int("failures", cb.failureCount).
		Msg("circuit breaker state changed")
	if cb.onChange != nil {
		cb.onChange(cb.name, s)
	}
}

// BreakerRegistry hands out one breaker per dependency name.
type BreakerRegistry struct {
	mu       sync.Mutex
	cfg      BreakerConfig
	breakers map[string]*CircuitBreaker
	onChange func(name string, state domain.BreakerState)
	log      zerolog.Logger
}

// NewBreakerRegistry creates an empty registry. onChange may be nil.
func NewBreakerRegistry(cfg BreakerConfig, onChange func(string, domain.BreakerState), log zerolog.Logger) *BreakerRegistry {
	return &BreakerRegistry{
		cfg:      cfg,
		breakers: make(map[string]*CircuitBreaker),
		onChange: onChange,
		log:      log,
	}
}

// Get returns the breaker for name, creating it on first use.
func (r *BreakerRegistry) Get(name string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.breakers[name]
	if !ok {
		cb = NewCircuitBreaker(name, r.cfg, r.log)
		cb.onChange = r.onChange
		r.breakers[name] = cb
	}
	return cb
}

// Snapshot returns every breaker's state ordered by name.
func (r *BreakerRegistry) Snapshot() []domain.CircuitBreakerState {
	r.mu.Lock()
	list := make([]*CircuitBreaker, 0, len(r.breakers))
	for _, cb := range r.breakers {
		list = append(list, cb)
	}
	r.mu.Unlock()

	out := make([]domain.CircuitBreakerState, 0, len(list))
	for _, cb := range list {
		out = append(out, cb.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceName < out[j].ServiceName })
	return out
}
