package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"payflow/internal/core/domain"

	"github.com/google/uuid"
)

// FailedTaskStore is an in-memory dead letter queue table.
type FailedTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.FailedTask
}

// NewFailedTaskStore creates an empty FailedTaskStore.
func NewFailedTaskStore() *FailedTaskStore {
	return &FailedTaskStore{tasks: make(map[uuid.UUID]*domain.FailedTask)}
}

func (s *FailedTaskStore) Create(ctx context.Context, task *domain.FailedTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; ok {
		return fmt.Errorf("failed task %s already exists", task.ID)
	}
	s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (s *FailedTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FailedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return cloneTask(t), nil
}

func (s *FailedTaskStore) List(ctx context.Context, limit int) ([]*domain.FailedTask, error) {
	s.mu.Lock()
	out := make([]*domain.FailedTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, cloneTask(t))
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *FailedTaskStore) Update(ctx context.Context, id uuid.UUID, fn func(task *domain.FailedTask) error) (*domain.FailedTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	working := cloneTask(t)
	if err := fn(working); err != nil {
		return nil, err
	}
	s.tasks[id] = working
	return cloneTask(working), nil
}

func cloneTask(t *domain.FailedTask) *domain.FailedTask {
	cp := *t
	cp.Payload = append([]byte(nil), t.Payload...)
	if t.LastRetryAt != nil {
		v := *t.LastRetryAt
		cp.LastRetryAt = &v
	}
	if t.ResolvedAt != nil {
		v := *t.ResolvedAt
		cp.ResolvedAt = &v
	}
	return &cp
}
