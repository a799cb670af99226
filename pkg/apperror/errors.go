package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses and to the
// saga's retry decisions.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Retryable  bool   `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// IsRetryable reports whether err carries a retryable AppError anywhere in its chain.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// CodeOf returns the error code of the first AppError in the chain, or
// SYS_000 for unclassified errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "SYS_000"
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// ---- Validation (VAL) ----

func ErrValidation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- Liquidity (LIQ) ----

func ErrInsufficientLiquidity() *AppError {
	return New("LIQ_001", "Insufficient liquidity in corridor pool", http.StatusUnprocessableEntity)
}

func ErrPoolNotFound() *AppError {
	return New("POOL_404", "Liquidity pool not found", http.StatusNotFound)
}

func ErrReservationNotHeld(status string) *AppError {
	return New("LIQ_002", fmt.Sprintf("Liquidity reservation is %s, not held", status), http.StatusConflict)
}

// ErrPoolUnavailable is retryable: a pool leaves rebalancing on its own.
func ErrPoolUnavailable(status string) *AppError {
	e := New("LIQ_003", fmt.Sprintf("Liquidity pool is %s", status), http.StatusServiceUnavailable)
	e.Retryable = true
	return e
}

func ErrReservationNotFound() *AppError {
	return New("LIQ_404", "Liquidity reservation not found", http.StatusNotFound)
}

// ---- Compliance (CMP) ----

func ErrComplianceRejected() *AppError {
	return New("CMP_001", "Payment rejected by compliance", http.StatusUnprocessableEntity)
}

func ErrComplianceReviewRequired() *AppError {
	return New("CMP_002", "Payment requires manual compliance review", http.StatusAccepted)
}

// ---- Dependencies (DEP) ----

// ErrDependencyUnavailable marks a transient collaborator failure.
func ErrDependencyUnavailable(dependency string, err error) *AppError {
	e := Wrap("DEP_001", fmt.Sprintf("Dependency %s unavailable", dependency), http.StatusServiceUnavailable, err)
	e.Retryable = true
	return e
}

// ErrDependencyRejected marks a collaborator refusing the request outright.
func ErrDependencyRejected(dependency string, err error) *AppError {
	return Wrap("DEP_003", fmt.Sprintf("Dependency %s rejected the request", dependency), http.StatusUnprocessableEntity, err)
}

func ErrCircuitOpen(dependency string) *AppError {
	e := New("DEP_002", fmt.Sprintf("Circuit open for %s", dependency), http.StatusServiceUnavailable)
	e.Retryable = true
	return e
}

// ---- Execution (EXE) ----

func ErrExecutionOutcomeUnknown(err error) *AppError {
	return Wrap("EXE_001", "Execution outcome unknown, queued for reconciliation", http.StatusBadGateway, err)
}

// ---- State machine (FSM) ----

func ErrInvalidStateTransition(from, to string) *AppError {
	return New("FSM_001", fmt.Sprintf("Invalid state transition %s -> %s", from, to), http.StatusConflict)
}

func ErrConcurrentModification() *AppError {
	return New("FSM_002", "Payment was modified concurrently", http.StatusConflict)
}

// ---- Idempotency (IDM) ----

func ErrIdempotencyConflict() *AppError {
	return New("IDM_001", "Duplicate submission for idempotency key", http.StatusConflict)
}

// ---- Payment (PAY) ----

func ErrNotFound(entity string) *AppError {
	return New("PAY_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Dead letter queue (DLQ) ----

func ErrTaskNotFound() *AppError {
	return New("DLQ_404", "Failed task not found", http.StatusNotFound)
}

func ErrTaskNotRetryable(reason string) *AppError {
	return New("DLQ_001", fmt.Sprintf("Failed task not retryable: %s", reason), http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrUnauthorized() *AppError {
	return New("AUTH_001", "Missing or invalid admin token", http.StatusUnauthorized)
}

func ErrInvalidCredentials() *AppError {
	return New("AUTH_002", "Invalid operator credentials", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrSagaAbandoned() *AppError {
	return New("SYS_002", "Payment saga abandoned, recovered by sweeper", http.StatusInternalServerError)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
