package domain

import (
	"time"

	"github.com/google/uuid"
)

// SagaStage names one step of the payment pipeline.
type SagaStage string

const (
	StageValidate   SagaStage = "validate"
	StageRouting    SagaStage = "routing"
	StageCompliance SagaStage = "compliance"
	StageLiquidity  SagaStage = "liquidity"
	StageYield      SagaStage = "yield_unwind"
	StageRateLock   SagaStage = "rate_lock"
	StageExecution  SagaStage = "execution"
	StageSettlement SagaStage = "settlement"
	StageNotify     SagaStage = "notify"
	StageReview     SagaStage = "review"
	StageCancel     SagaStage = "cancel"
	StageRecovery   SagaStage = "recovery"
)

// StageOutcome is the classified result of running a stage.
type StageOutcome string

const (
	OutcomeSuccess   StageOutcome = "success"
	OutcomeRetryable StageOutcome = "retryable"
	OutcomeFatal     StageOutcome = "fatal"
	OutcomePaused    StageOutcome = "paused"
)

// SagaAuditEntry records one stage attempt for a payment.
type SagaAuditEntry struct {
	ID        uuid.UUID     `json:"id"`
	PaymentID uuid.UUID     `json:"payment_id"`
	Stage     SagaStage     `json:"stage"`
	Outcome   StageOutcome  `json:"outcome"`
	Status    PaymentStatus `json:"status"`
	LatencyMS int64         `json:"latency_ms"`
	ErrorCode string        `json:"error_code,omitempty"`
	Detail    string        `json:"detail,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
