package domain

import "payflow/pkg/apperror"

// paymentTransitions is the allowed-transition table. Terminal states map to
// an empty set. Self-transitions are handled by ValidateTransition, not here.
var paymentTransitions = map[PaymentStatus]map[PaymentStatus]struct{}{
	PaymentStatusPending: {
		PaymentStatusRouting:   {},
		PaymentStatusCancelled: {},
		PaymentStatusFailed:    {},
		PaymentStatusExpired:   {},
	},
	PaymentStatusRouting: {
		PaymentStatusSettling: {},
		PaymentStatusFailed:   {},
		PaymentStatusPending:  {},
	},
	PaymentStatusSettling: {
		PaymentStatusCompleted:        {},
		PaymentStatusFailed:           {},
		PaymentStatusYieldUnwinding:   {},
		PaymentStatusComplianceReview: {},
	},
	PaymentStatusYieldUnwinding: {
		PaymentStatusSettling: {},
		PaymentStatusFailed:   {},
	},
	PaymentStatusComplianceReview: {
		PaymentStatusSettling:  {},
		PaymentStatusFailed:    {},
		PaymentStatusCancelled: {},
	},
	PaymentStatusOfflineQueued: {
		PaymentStatusPending: {},
		PaymentStatusFailed:  {},
	},
	PaymentStatusCompleted: {},
	PaymentStatusFailed:    {},
	PaymentStatusCancelled: {},
	PaymentStatusExpired:   {},
}

// CanTransition reports whether from -> to is legal. A self-transition is
// always legal for a known status.
func CanTransition(from, to PaymentStatus) bool {
	next, ok := paymentTransitions[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	_, ok = next[to]
	return ok
}

// ValidateTransition returns FSM_001 for an illegal transition.
func ValidateTransition(from, to PaymentStatus) error {
	if !CanTransition(from, to) {
		return apperror.ErrInvalidStateTransition(string(from), string(to))
	}
	return nil
}

// AllowedTransitions lists the statuses reachable from s in one step.
func AllowedTransitions(s PaymentStatus) []PaymentStatus {
	out := make([]PaymentStatus, 0, len(paymentTransitions[s]))
	for to := range paymentTransitions[s] {
		out = append(out, to)
	}
	return out
}

// IsTerminalStatus reports whether s has no outgoing transitions.
func IsTerminalStatus(s PaymentStatus) bool {
	next, ok := paymentTransitions[s]
	return ok && len(next) == 0
}

// IsInitialStatus reports whether a payment may be created in s.
func IsInitialStatus(s PaymentStatus) bool {
	return s == PaymentStatusPending || s == PaymentStatusOfflineQueued
}
