package memory

import (
	"context"
	"sync"

	"payflow/internal/core/domain"

	"github.com/google/uuid"
)

// AuditStore keeps saga audit entries in append order per payment.
type AuditStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]*domain.SagaAuditEntry
}

// NewAuditStore creates an empty AuditStore.
func NewAuditStore() *AuditStore {
	return &AuditStore{entries: make(map[uuid.UUID][]*domain.SagaAuditEntry)}
}

func (s *AuditStore) Append(ctx context.Context, entry *domain.SagaAuditEntry) error {
	cp := *entry
	s.mu.Lock()
	s.entries[entry.PaymentID] = append(s.entries[entry.PaymentID], &cp)
	s.mu.Unlock()
	return nil
}

func (s *AuditStore) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]*domain.SagaAuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.entries[paymentID]
	out := make([]*domain.SagaAuditEntry, len(src))
	for i, e := range src {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}
