package types

import (
	"time"

	"github.com/google/uuid"
)

// Position is one participant's cumulative stake within one market.
// There is at most one per (market, owner) pair; the outcome is fixed by
// the first bet and a successful claim removes the record entirely.
type Position struct {
	Owner     Identity  `json:"owner"`
	Market    uuid.UUID `json:"market"`
	Outcome   Outcome   `json:"outcome"`
	Amount    uint64    `json:"amount"` // cumulative net stake
	Claimed   bool      `json:"claimed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy, see Market.Clone.
func (p *Position) Clone() *Position {
	c := *p
	return &c
}
