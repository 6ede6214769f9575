package utils

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common application errors used across services.
var (
	ErrNotFound           = errors.New("NOT_FOUND")
	ErrCodeNotFound       = errors.New("REFERRAL_CODE_NOT_FOUND")
	ErrCodeInactive       = errors.New("REFERRAL_CODE_INACTIVE")
	ErrCodeExpired        = errors.New("REFERRAL_CODE_EXPIRED")
	ErrCodeAlreadyExists  = errors.New("REFERRAL_CODE_ALREADY_EXISTS")
	ErrCodeCollision      = errors.New("REFERRAL_CODE_COLLISION")
	ErrSelfReferral       = errors.New("SELF_REFERRAL")
	ErrCodeAlreadyUsed    = errors.New("REFERRAL_CODE_ALREADY_USED")
	ErrNothingToWithdraw  = errors.New("NOTHING_TO_WITHDRAW")
	ErrSyncDisabled       = errors.New("SYNC_DISABLED")
	ErrInvariantViolation = errors.New("INVARIANT_VIOLATION")
)

// BelowMinimumError is returned when a user's unpaid commission total is
// under the withdrawal threshold. It carries enough detail for the caller
// to render the exact shortfall.
type BelowMinimumError struct {
	Total     decimal.Decimal
	Minimum   decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("BELOW_MINIMUM_WITHDRAWAL: total %s, need %s more", e.Total.StringFixed(2), e.Shortfall.StringFixed(2))
}

// NewBelowMinimumError builds a BelowMinimumError with the shortfall
// precomputed.
func NewBelowMinimumError(total, minimum decimal.Decimal) *BelowMinimumError {
	return &BelowMinimumError{Total: total, Minimum: minimum, Shortfall: minimum.Sub(total)}
}

// TransientError wraps a store I/O failure. The atomicity guarantees of the
// repositories mean no partial state was committed, so callers may retry
// the whole operation.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("TRANSIENT: %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
