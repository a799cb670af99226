package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FailedTaskStatus is the lifecycle state of a dead-letter entry.
type FailedTaskStatus string

const (
	FailedTaskFailed    FailedTaskStatus = "failed"
	FailedTaskRetrying  FailedTaskStatus = "retrying"
	FailedTaskRecovered FailedTaskStatus = "recovered"
	FailedTaskArchived  FailedTaskStatus = "archived"
)

// Task types captured by the saga.
const (
	TaskTypeExecution    = "payment_execution"
	TaskTypeSettlement   = "payment_settlement"
	TaskTypeSagaRecovery = "saga_recovery"
)

// FailedTask is a durable record of a task that cannot be safely auto-retried.
type FailedTask struct {
	ID          uuid.UUID        `json:"id"`
	TaskType    string           `json:"task_type"`
	Payload     json.RawMessage  `json:"payload"`
	Error       string           `json:"error"`
	RetryCount  int              `json:"retry_count"`
	MaxRetries  int              `json:"max_retries"`
	Status      FailedTaskStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	LastRetryAt *time.Time       `json:"last_retry_at,omitempty"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`
}

// CanRetry reports whether the task may move to retrying.
func (t *FailedTask) CanRetry() bool {
	return t.Status == FailedTaskFailed && t.RetryCount < t.MaxRetries
}

// PaymentTaskPayload is the snapshot the saga stores with a captured task.
type PaymentTaskPayload struct {
	Payment       *Payment   `json:"payment"`
	Stage         SagaStage  `json:"stage"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	ErrorCode     string     `json:"error_code"`
}
