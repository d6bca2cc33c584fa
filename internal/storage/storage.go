// Package storage is the record store for Market and Position records.
// The engine only reads and writes logical fields; addressing and
// persistence live here.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/pkg/types"
)

// Store persists Market and Position records.
//
// Multi-record mutations (ApplyBet, SettleClaim) must be atomic: either
// every record in the call is written or none is. Implementations may
// assume the environment never runs two operations on the same
// market/position concurrently.
type Store interface {
	CreateMarket(ctx context.Context, m *types.Market) error
	GetMarket(ctx context.Context, id uuid.UUID) (*types.Market, error)
	UpdateMarket(ctx context.Context, m *types.Market) error
	ListMarkets(ctx context.Context) ([]*types.Market, error)

	GetPosition(ctx context.Context, market uuid.UUID, owner types.Identity) (*types.Position, error)

	// ApplyBet writes the mutated market and upserts the position in one
	// transaction.
	ApplyBet(ctx context.Context, m *types.Market, p *types.Position) error

	// SettleClaim terminates a claimed position: the record is deleted,
	// not flagged, so no later operation can target it.
	SettleClaim(ctx context.Context, market uuid.UUID, owner types.Identity) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}
