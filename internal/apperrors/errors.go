package apperrors

import "errors"

// State errors: the operation is well formed but the account is not in a
// state that allows it.
var (
	// ErrBalanceUninitialized indicates an operation on a ledger that never
	// had an initial balance set.
	ErrBalanceUninitialized = errors.New("balance not initialized")

	// ErrTargetDisabled indicates a progress evaluation on a disabled target.
	ErrTargetDisabled = errors.New("target is disabled")
)

// Domain entity errors.
var (
	ErrTradeNotFound   = errors.New("trade not found")
	ErrDuplicateTrade  = errors.New("duplicate trade id")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// IsState reports whether err is one of the state errors.
func IsState(err error) bool {
	return errors.Is(err, ErrBalanceUninitialized) || errors.Is(err, ErrTargetDisabled)
}
