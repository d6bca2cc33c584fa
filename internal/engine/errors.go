package engine

import (
	"errors"

	"github.com/mselser95/parimutuel-engine/pkg/types"
)

func isNotFound(err error) bool {
	return errors.Is(err, types.ErrPositionNotFound)
}

// reasonLabel maps an error to a low-cardinality metric label.
func reasonLabel(err error) string {
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, types.ErrBettingClosed):
		return "betting_closed"
	case errors.Is(err, types.ErrTooEarly):
		return "too_early"
	case errors.Is(err, types.ErrInvalidDeadline):
		return "invalid_deadline"
	case errors.Is(err, types.ErrAlreadyResolved), errors.Is(err, types.ErrMarketResolved):
		return "already_resolved"
	case errors.Is(err, types.ErrNotResolved):
		return "not_resolved"
	case errors.Is(err, types.ErrAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, types.ErrWrongMarket):
		return "wrong_market"
	case errors.Is(err, types.ErrMarketNotFound), errors.Is(err, types.ErrPositionNotFound):
		return "not_found"
	case errors.Is(err, types.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, types.ErrWrongAsset):
		return "wrong_asset"
	case errors.Is(err, types.ErrCannotSwitchSide):
		return "side_switch"
	case errors.Is(err, types.ErrInvalidOutcome):
		return "invalid_outcome"
	case errors.Is(err, types.ErrOverflow):
		return "overflow"
	case errors.Is(err, types.ErrBetExceedsLimit):
		return "bet_exceeds_limit"
	case errors.Is(err, types.ErrNoPayout):
		return "no_payout"
	case errors.Is(err, types.ErrNoFees):
		return "no_fees"
	case errors.Is(err, types.ErrInsufficientBalance), errors.Is(err, types.ErrTransferFailed):
		return "transfer_failed"
	}

	return "internal"
}
