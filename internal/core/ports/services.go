package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"payflow/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Service Ports (use cases exposed to adapters) ---

// PaymentService drives payments through the saga.
// Non-success results are returned together with the *apperror.AppError
// that explains them; the result is never nil.
type PaymentService interface {
	Submit(ctx context.Context, req SubmitPaymentRequest) (*domain.PaymentResult, error)
	GetStatus(ctx context.Context, paymentID uuid.UUID) (*domain.PaymentSnapshot, error)
	Cancel(ctx context.Context, paymentID uuid.UUID) (*domain.PaymentResult, error)
	Resume(ctx context.Context, paymentID uuid.UUID, decision domain.ReviewDecision, reviewer string) (*domain.PaymentResult, error)
}

// SubmitPaymentRequest holds validated input for a new payment.
type SubmitPaymentRequest struct {
	IdempotencyKey string
	Reference      string
	Amount         decimal.Decimal
	FromCurrency   string
	ToCurrency     string
	Sender         domain.Party
	Recipient      domain.Party
}

// AdminService exposes operator actions.
type AdminService interface {
	ListDLQ(ctx context.Context, limit int) ([]*domain.FailedTask, error)
	RetryDLQ(ctx context.Context, taskID uuid.UUID) (*domain.FailedTask, error)
	ResolveDLQ(ctx context.Context, taskID uuid.UUID) (*domain.FailedTask, error)
	ArchiveDLQ(ctx context.Context, taskID uuid.UUID) (*domain.FailedTask, error)
	GetPoolStatus(ctx context.Context, poolID string) (*domain.PoolStatusReport, error)
	TriggerRebalanceScan(ctx context.Context) ([]domain.RebalanceReport, error)
	Breakers() []domain.CircuitBreakerState
}

// AuthService authenticates operators for the admin API.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

// HashService hashes and verifies operator passwords.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenService handles admin JWT operations.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	Role    string
}

// SignatureService signs outbound webhook payloads.
type SignatureService interface {
	Sign(secretKey string, payload []byte) string
	Verify(secretKey string, payload []byte, signature string) bool
}
