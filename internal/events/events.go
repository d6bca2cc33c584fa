// Package events broadcasts engine state transitions to WebSocket
// subscribers.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/pkg/types"
)

// Type labels an engine event.
type Type string

const (
	TypeMarketCreated   Type = "market_created"
	TypeDeadlineUpdated Type = "deadline_updated"
	TypeBetPlaced       Type = "bet_placed"
	TypeMarketResolved  Type = "market_resolved"
	TypeClaimPaid       Type = "claim_paid"
	TypeFeesSwept       Type = "fees_swept"
)

// Event is a single engine state transition, serialized to subscribers as
// JSON.
type Event struct {
	Type      Type           `json:"type"`
	MarketID  uuid.UUID      `json:"market_id"`
	Actor     types.Identity `json:"actor"`
	Outcome   types.Outcome  `json:"outcome,omitempty"`
	Amount    uint64         `json:"amount,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
