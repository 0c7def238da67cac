package domain

import "errors"

// Every failure aborts the whole operation with no partial state change.
// Callers inspect these with errors.Is; the HTTP layer maps each to a
// distinct status and machine-readable code.
var (
	// Authorization
	ErrNotAuthorized = errors.New("caller is not the asset owner or an approved operator")

	// State
	ErrNotListed      = errors.New("asset is not listed for rent")
	ErrAlreadyRented  = errors.New("asset has an active rental")
	ErrNoActiveRental = errors.New("no rental record for asset")
	ErrNotExpired     = errors.New("rental has not expired yet")
	ErrAlreadySettled = errors.New("deposit already settled")

	// Input
	ErrZeroDuration   = errors.New("rental duration must be at least one hour")
	ErrInvalidDeposit = errors.New("deposit basis points exceed the configured cap")
	ErrValueMismatch  = errors.New("attached value does not equal the required amount")

	// Arithmetic
	ErrOverflow = errors.New("amount exceeds the numeric range")

	// Transfer
	ErrTransferFailed = errors.New("transfer failed")
)
