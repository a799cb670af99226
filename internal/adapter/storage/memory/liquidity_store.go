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

// LiquidityStore keeps pools and reservations in memory. UpdatePool holds a
// per-pool mutex for the duration of the callback and commits the callback's
// copies only when it returns nil.
type LiquidityStore struct {
	mu           sync.RWMutex
	pools        map[string]*domain.LiquidityPool
	reservations map[uuid.UUID]*domain.LiquidityReservation
	poolLocks    map[string]*sync.Mutex
}

// NewLiquidityStore creates an empty LiquidityStore.
func NewLiquidityStore() *LiquidityStore {
	return &LiquidityStore{
		pools:        make(map[string]*domain.LiquidityPool),
		reservations: make(map[uuid.UUID]*domain.LiquidityReservation),
		poolLocks:    make(map[string]*sync.Mutex),
	}
}

func (s *LiquidityStore) CreatePool(ctx context.Context, pool *domain.LiquidityPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pools[pool.ID]; ok {
		return fmt.Errorf("pool %s already exists", pool.ID)
	}
	for _, existing := range s.pools {
		if existing.Corridor() == pool.Corridor() {
			return fmt.Errorf("corridor %s already has pool %s", pool.Corridor(), existing.ID)
		}
	}
	s.pools[pool.ID] = pool.Clone()
	s.poolLocks[pool.ID] = &sync.Mutex{}
	return nil
}

func (s *LiquidityStore) GetPool(ctx context.Context, id string) (*domain.LiquidityPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pools[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (s *LiquidityStore) GetPoolByCorridor(ctx context.Context, corridor string) (*domain.LiquidityPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pools {
		if p.Corridor() == corridor {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

func (s *LiquidityStore) ListPools(ctx context.Context) ([]*domain.LiquidityPool, error) {
	s.mu.RLock()
	out := make([]*domain.LiquidityPool, 0, len(s.pools))
	for _, p := range s.pools {
		out = append(out, p.Clone())
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *LiquidityStore) GetReservation(ctx context.Context, id uuid.UUID) (*domain.LiquidityReservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, nil
	}
	return r.Clone(), nil
}

func (s *LiquidityStore) ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]*domain.LiquidityReservation, error) {
	s.mu.RLock()
	var out []*domain.LiquidityReservation
	for _, r := range s.reservations {
		if r.IsExpired(now) {
			out = append(out, r.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *LiquidityStore) CountHeldReservations(ctx context.Context, poolID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.reservations {
		if r.PoolID == poolID && r.IsHeld() {
			n++
		}
	}
	return n, nil
}

func (s *LiquidityStore) UpdatePool(ctx context.Context, poolID string, fn func(tx ports.PoolTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	lock, ok := s.poolLocks[poolID]
	s.mu.RUnlock()
	if !ok {
		return ports.ErrPoolNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	pool := s.pools[poolID].Clone()
	s.mu.RUnlock()

	tx := &poolTx{store: s, pool: pool, pending: make(map[uuid.UUID]*domain.LiquidityReservation)}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[poolID] = tx.pool.Clone()
	for id, r := range tx.pending {
		s.reservations[id] = r.Clone()
	}
	return nil
}

type poolTx struct {
	store   *LiquidityStore
	pool    *domain.LiquidityPool
	pending map[uuid.UUID]*domain.LiquidityReservation
}

func (t *poolTx) Pool() *domain.LiquidityPool { return t.pool }

func (t *poolTx) Reservation(ctx context.Context, id uuid.UUID) (*domain.LiquidityReservation, error) {
	if r, ok := t.pending[id]; ok {
		return r, nil
	}
	r, err := t.store.GetReservation(ctx, id)
	if err != nil || r == nil {
		return r, err
	}
	if r.PoolID != t.pool.ID {
		return nil, nil
	}
	return r, nil
}

func (t *poolTx) PutReservation(r *domain.LiquidityReservation) {
	t.pending[r.ID] = r
}
