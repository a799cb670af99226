// Package memory provides in-process implementations of the storage ports.
// They back the default "memory" storage driver and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/google/uuid"
)

// PaymentStore is a map-backed PaymentRepository. Stored values are cloned on
// the way in and out so callers never share state with the store.
type PaymentStore struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*domain.Payment
}

// NewPaymentStore creates an empty PaymentStore.
func NewPaymentStore() *PaymentStore {
	return &PaymentStore{payments: make(map[uuid.UUID]*domain.Payment)}
}

func (s *PaymentStore) Create(ctx context.Context, p *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.ID]; ok {
		return fmt.Errorf("payment %s already exists", p.ID)
	}
	s.payments[p.ID] = p.Clone()
	return nil
}

func (s *PaymentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (s *PaymentStore) Update(ctx context.Context, p *domain.Payment, expected domain.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.payments[p.ID]
	if !ok {
		return fmt.Errorf("payment %s not found", p.ID)
	}
	if current.Status != expected {
		return ports.ErrStaleWrite
	}
	s.payments[p.ID] = p.Clone()
	return nil
}

func (s *PaymentStore) ListByStatusUpdatedBefore(ctx context.Context, statuses []domain.PaymentStatus, before time.Time, limit int) ([]*domain.Payment, error) {
	want := make(map[domain.PaymentStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}

	s.mu.RLock()
	var out []*domain.Payment
	for _, p := range s.payments {
		if want[p.Status] && p.UpdatedAt.Before(before) {
			out = append(out, p.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
