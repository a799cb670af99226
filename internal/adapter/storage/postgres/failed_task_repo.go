package postgres

import (
	"context"
	"errors"
	"fmt"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const failedTaskColumns = `id, task_type, payload, error, retry_count, max_retries, status, created_at, last_retry_at, resolved_at`

// FailedTaskRepo implements ports.FailedTaskRepository.
type FailedTaskRepo struct {
	pool Pool
}

var _ ports.FailedTaskRepository = (*FailedTaskRepo)(nil)

// NewFailedTaskRepo creates a new FailedTaskRepo.
func NewFailedTaskRepo(pool Pool) *FailedTaskRepo {
	return &FailedTaskRepo{pool: pool}
}

func (r *FailedTaskRepo) Create(ctx context.Context, t *domain.FailedTask) error {
	query := `INSERT INTO failed_tasks (` + failedTaskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.TaskType, []byte(t.Payload), t.Error, t.RetryCount, t.MaxRetries,
		string(t.Status), t.CreatedAt, t.LastRetryAt, t.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert failed task: %w", err)
	}
	return nil
}

func (r *FailedTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FailedTask, error) {
	query := `SELECT ` + failedTaskColumns + ` FROM failed_tasks WHERE id = $1`
	return scanFailedTask(r.pool.QueryRow(ctx, query, id))
}

// List returns at most limit tasks, newest first.
func (r *FailedTaskRepo) List(ctx context.Context, limit int) ([]*domain.FailedTask, error) {
	query := `SELECT ` + failedTaskColumns + ` FROM failed_tasks ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list failed tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.FailedTask
	for rows.Next() {
		t, err := scanFailedTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failed task rows: %w", err)
	}
	return out, nil
}

// Update locks the task row, applies fn and writes the lifecycle columns back.
// It returns (nil, nil) for an unknown id. An error from fn is returned as is.
func (r *FailedTaskRepo) Update(ctx context.Context, id uuid.UUID, fn func(task *domain.FailedTask) error) (_ *domain.FailedTask, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin failed task transaction: %w", err)
	}
	defer rollback(ctx, tx, &err)

	query := `SELECT ` + failedTaskColumns + ` FROM failed_tasks WHERE id = $1 FOR UPDATE`
	t, err := scanFailedTask(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if t == nil {
		_ = tx.Rollback(ctx)
		return nil, nil
	}

	if err = fn(t); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE failed_tasks SET retry_count = $2, status = $3, error = $4, last_retry_at = $5, resolved_at = $6 WHERE id = $1`,
		t.ID, t.RetryCount, string(t.Status), t.Error, t.LastRetryAt, t.ResolvedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update failed task: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit failed task transaction: %w", err)
	}
	return t, nil
}

func scanFailedTask(row pgx.Row) (*domain.FailedTask, error) {
	var (
		t       domain.FailedTask
		payload []byte
		status  string
	)
	err := row.Scan(&t.ID, &t.TaskType, &payload, &t.Error, &t.RetryCount, &t.MaxRetries,
		&status, &t.CreatedAt, &t.LastRetryAt, &t.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan failed task: %w", err)
	}
	t.Payload = payload
	t.Status = domain.FailedTaskStatus(status)
	return &t, nil
}
