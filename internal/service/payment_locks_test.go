package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPaymentLocks_SerializesSameID(t *testing.T) {
	locks := newPaymentLocks()
	id := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(id)
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Zero(t, locks.size(), "entries are dropped after the last unlock")
}

func TestPaymentLocks_IndependentIDs(t *testing.T) {
	locks := newPaymentLocks()
	a, b := uuid.New(), uuid.New()

	unlockA := locks.Lock(a)
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock(b)
		unlockB()
		close(done)
	}()
	<-done
	assert.Equal(t, 1, locks.size())
	unlockA()
	assert.Zero(t, locks.size())
}
