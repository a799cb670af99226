package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("LIQ_001", "Insufficient liquidity", http.StatusUnprocessableEntity),
			expected: "[LIQ_001] Insufficient liquidity",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("VAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
		retryable  bool
	}{
		{"Validation", ErrValidation("bad amount"), "VAL_001", 400, false},
		{"InsufficientLiquidity", ErrInsufficientLiquidity(), "LIQ_001", 422, false},
		{"ComplianceRejected", ErrComplianceRejected(), "CMP_001", 422, false},
		{"ComplianceReview", ErrComplianceReviewRequired(), "CMP_002", 202, false},
		{"DependencyUnavailable", ErrDependencyUnavailable("rates", nil), "DEP_001", 503, true},
		{"CircuitOpen", ErrCircuitOpen("rates"), "DEP_002", 503, true},
		{"ExecutionUnknown", ErrExecutionOutcomeUnknown(nil), "EXE_001", 502, false},
		{"InvalidTransition", ErrInvalidStateTransition("COMPLETED", "PENDING"), "FSM_001", 409, false},
		{"IdempotencyConflict", ErrIdempotencyConflict(), "IDM_001", 409, false},
		{"NotFound", ErrNotFound("Payment"), "PAY_004", 404, false},
		{"TaskNotRetryable", ErrTaskNotRetryable("archived"), "DLQ_001", 409, false},
		{"RateLimit", ErrRateLimitExceeded(), "RATE_001", 429, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestIsRetryable_WrappedChain(t *testing.T) {
	err := fmt.Errorf("settle: %w", ErrDependencyUnavailable("settlement", errors.New("timeout")))
	assert.True(t, IsRetryable(err))
	assert.Equal(t, "DEP_001", CodeOf(err))

	assert.False(t, IsRetryable(errors.New("plain")))
	assert.Equal(t, "SYS_000", CodeOf(errors.New("plain")))
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(ErrInsufficientLiquidity(), "LIQ_001"))
	assert.False(t, HasCode(nil, "LIQ_001"))
	assert.False(t, HasCode(ErrValidation("x"), "LIQ_001"))
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))

	internal := InternalError(inner)
	assert.Equal(t, "SYS_001", internal.Code)
	assert.True(t, errors.Is(internal, inner))
}
