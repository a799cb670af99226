package service

import (
	"sync"

	"github.com/google/uuid"
)

// paymentLocks hands out one mutex per payment id. Entries are dropped when
// the last holder unlocks.
type paymentLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*paymentLock
}

type paymentLock struct {
	mu   sync.Mutex
	refs int
}

func newPaymentLocks() *paymentLocks {
	return &paymentLocks{locks: make(map[uuid.UUID]*paymentLock)}
}

// Lock blocks until the caller owns id and returns the unlock func.
func (l *paymentLocks) Lock(id uuid.UUID) func() {
	l.mu.Lock()
	pl, ok := l.locks[id]
	if !ok {
		pl = &paymentLock{}
		l.locks[id] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()
	return func() {
		pl.mu.Unlock()
		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *paymentLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
