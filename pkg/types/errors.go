package types

import "errors"

// Engine error taxonomy. Every operation fails with exactly one of these
// (possibly wrapped with context) and leaves all records untouched.
var (
	// Authorization
	ErrUnauthorized = errors.New("caller is not the system authority")

	// Timing
	ErrBettingClosed   = errors.New("betting period is closed")
	ErrTooEarly        = errors.New("too early to resolve")
	ErrInvalidDeadline = errors.New("new deadline must be in the future")

	// State
	ErrAlreadyResolved  = errors.New("market already resolved")
	ErrMarketResolved   = errors.New("market is resolved")
	ErrNotResolved      = errors.New("market not resolved")
	ErrAlreadyClaimed   = errors.New("position already claimed")
	ErrWrongMarket      = errors.New("position belongs to a different market")
	ErrMarketNotFound   = errors.New("market not found")
	ErrPositionNotFound = errors.New("position not found")

	// Validation
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrWrongAsset       = errors.New("wrong asset kind for this market")
	ErrCannotSwitchSide = errors.New("cannot switch sides after placing a bet")
	ErrInvalidOutcome   = errors.New("invalid outcome")

	// Arithmetic
	ErrOverflow        = errors.New("arithmetic overflow")
	ErrBetExceedsLimit = errors.New("cumulative bet exceeds the per-position limit")
	ErrNoPayout        = errors.New("no payout for this position")
	ErrNoFees          = errors.New("no fees available to sweep")

	// Transfer collaborator
	ErrTransferFailed      = errors.New("asset transfer failed")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
