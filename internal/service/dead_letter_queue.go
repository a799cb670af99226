package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"
	"payflow/internal/observability"
	"payflow/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultDLQListLimit = 50

// DeadLetterQueue records tasks that cannot be safely auto-retried. It never
// re-executes a task itself; Retry hands the task back to the caller.
type DeadLetterQueue struct {
	repo       ports.FailedTaskRepository
	maxRetries int
	now        func() time.Time
	log        zerolog.Logger
}

// NewDeadLetterQueue creates a DLQ. maxRetries is the default cap for
// captures that pass 0.
func NewDeadLetterQueue(repo ports.FailedTaskRepository, maxRetries int, log zerolog.Logger) *DeadLetterQueue {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &DeadLetterQueue{repo: repo, maxRetries: maxRetries, now: time.Now, log: log}
}

// Capture persists a FailedTask with a JSON snapshot of payload.
func (q *DeadLetterQueue) Capture(ctx context.Context, taskType string, payload any, cause error, maxRetries int) (*domain.FailedTask, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encoding dlq payload: %w", err))
	}
	if maxRetries <= 0 {
		maxRetries = q.maxRetries
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	task := &domain.FailedTask{
		ID:         uuid.New(),
		TaskType:   taskType,
		Payload:    raw,
		Error:      msg,
		MaxRetries: maxRetries,
		Status:     domain.FailedTaskFailed,
		CreatedAt:  q.now(),
	}
	if err := q.repo.Create(ctx, task); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("persisting failed task: %w", err))
	}

	observability.IncrementDLQCapture(taskType)
	q.log.Warn().
		Str("task_id", task.ID.String()).
		Str("task_type", taskType).
		Str("error", msg).
		Msg("task captured to dead letter queue")
	return task, nil
}

// List returns up to limit tasks, newest first.
func (q *DeadLetterQueue) List(ctx context.Context, limit int) ([]*domain.FailedTask, error) {
	if limit <= 0 {
		limit = defaultDLQListLimit
	}
	tasks, err := q.repo.List(ctx, limit)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("listing failed tasks: %w", err))
	}
	return tasks, nil
}

// Retry moves a failed task to retrying, bumps its retry count and returns
// it for a re-driver to act on.
func (q *DeadLetterQueue) Retry(ctx context.Context, id uuid.UUID) (*domain.FailedTask, error) {
	task, err := q.mutate(ctx, id, func(t *domain.FailedTask) error {
		if t.Status != domain.FailedTaskFailed {
			return apperror.ErrTaskNotRetryable("status is " + string(t.Status))
		}
		if t.RetryCount >= t.MaxRetries {
			return apperror.ErrTaskNotRetryable(fmt.Sprintf("retry limit %d reached", t.MaxRetries))
		}
		now := q.now()
		t.Status = domain.FailedTaskRetrying
		t.RetryCount++
		t.LastRetryAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	q.log.Info().Str("task_id", id.String()).Int("retry_count", task.RetryCount).Msg("dead letter task released for retry")
	return task, nil
}

// MarkFailed returns a retrying task to failed after an unsuccessful re-drive.
func (q *DeadLetterQueue) MarkFailed(ctx context.Context, id uuid.UUID, cause error) (*domain.FailedTask, error) {
	return q.mutate(ctx, id, func(t *domain.FailedTask) error {
		if t.Status != domain.FailedTaskRetrying {
			return apperror.ErrTaskNotRetryable("status is " + string(t.Status))
		}
		t.Status = domain.FailedTaskFailed
		if cause != nil {
			t.Error = cause.Error()
		}
		return nil
	})
}

// MarkRecovered closes a task whose real-world outcome was reconciled.
func (q *DeadLetterQueue) MarkRecovered(ctx context.Context, id uuid.UUID) (*domain.FailedTask, error) {
	return q.resolve(ctx, id, domain.FailedTaskRecovered)
}

// Archive closes a task that will not be retried.
func (q *DeadLetterQueue) Archive(ctx context.Context, id uuid.UUID) (*domain.FailedTask, error) {
	return q.resolve(ctx, id, domain.FailedTaskArchived)
}

func (q *DeadLetterQueue) resolve(ctx context.Context, id uuid.UUID, to domain.FailedTaskStatus) (*domain.FailedTask, error) {
	return q.mutate(ctx, id, func(t *domain.FailedTask) error {
		if t.Status == domain.FailedTaskRecovered || t.Status == domain.FailedTaskArchived {
			return apperror.ErrTaskNotRetryable("already " + string(t.Status))
		}
		now := q.now()
		t.Status = to
		t.ResolvedAt = &now
		return nil
	})
}

func (q *DeadLetterQueue) mutate(ctx context.Context, id uuid.UUID, fn func(t *domain.FailedTask) error) (*domain.FailedTask, error) {
	task, err := q.repo.Update(ctx, id, fn)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("updating failed task: %w", err))
	}
	if task == nil {
		return nil, apperror.ErrTaskNotFound()
	}
	return task, nil
}
