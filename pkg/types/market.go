package types

import (
	"time"

	"github.com/google/uuid"
)

// MarketState is the derived lifecycle state of a market.
type MarketState string

const (
	MarketStateOpen             MarketState = "open"
	MarketStateClosedUnresolved MarketState = "closed-unresolved"
	MarketStateResolvedYes      MarketState = "resolved-yes"
	MarketStateResolvedNo       MarketState = "resolved-no"
	MarketStateResolvedVoid     MarketState = "resolved-void"
)

// Market is one two-outcome betting event with its own escrow and pools.
//
// Pools hold net (post-fee) stake only and are frozen once Resolved is set.
// Invariant: Resolved == false implies WinningOutcome == OutcomeUnset;
// once Resolved is true the outcome never changes again.
type Market struct {
	ID              uuid.UUID `json:"id"`
	Creator         Identity  `json:"creator"`
	AssetKind       string    `json:"asset_kind"`
	AssetDecimals   uint8     `json:"asset_decimals"`
	EscrowAccount   Identity  `json:"escrow_account"`
	EscrowAuthority Identity  `json:"escrow_authority"`
	Deadline        time.Time `json:"deadline"`
	Resolved        bool      `json:"resolved"`
	WinningOutcome  Outcome   `json:"winning_outcome"`
	PoolYes         uint64    `json:"pool_yes"`
	PoolNo          uint64    `json:"pool_no"`
	FeesAccrued     uint64    `json:"fees_accrued"`
	CreatedAt       time.Time `json:"created_at"`
}

// State derives the lifecycle state at the given instant.
func (m *Market) State(now time.Time) MarketState {
	if m.Resolved {
		switch m.WinningOutcome {
		case OutcomeYes:
			return MarketStateResolvedYes
		case OutcomeNo:
			return MarketStateResolvedNo
		default:
			return MarketStateResolvedVoid
		}
	}

	if now.Before(m.Deadline) {
		return MarketStateOpen
	}

	return MarketStateClosedUnresolved
}

// AcceptingBets reports whether a bet may be placed at the given instant.
func (m *Market) AcceptingBets(now time.Time) bool {
	return !m.Resolved && now.Before(m.Deadline)
}

// Pool returns the net pool for the given side.
func (m *Market) Pool(o Outcome) uint64 {
	switch o {
	case OutcomeYes:
		return m.PoolYes
	case OutcomeNo:
		return m.PoolNo
	}

	return 0
}

// Clone returns a deep copy. Engine operations mutate clones and commit
// them in a single storage transaction, so a failed operation never leaves
// a half-updated record behind.
func (m *Market) Clone() *Market {
	c := *m
	return &c
}
