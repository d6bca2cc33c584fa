// Package transfer is the asset-transfer collaborator: it moves fungible
// value between participant holding accounts and market escrow. The engine
// validates every amount against its own accounting before asking for a
// transfer, and issues at most one transfer per operation.
package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/internal/escrow"
	"github.com/mselser95/parimutuel-engine/pkg/types"
)

// Request is a single transfer instruction.
//
// Deposits are signed by the paying participant (Signer == From). Escrow
// withdrawals are signed by the market's derived escrow authority and carry
// its derivation proof, which the service verifies against Market.
type Request struct {
	From   types.Identity
	To     types.Identity
	Amount uint64
	Signer types.Identity

	Market      uuid.UUID
	EscrowProof *escrow.Proof
}

// Service executes transfer instructions. A failed transfer must leave both
// accounts untouched.
type Service interface {
	Transfer(ctx context.Context, req Request) error
}

// Funder credits accounts outside any market operation. Only paper-mode
// banks implement it; deployments settling against a real ledger fund
// accounts out of band.
type Funder interface {
	Deposit(account types.Identity, amount uint64) error
	Balance(account types.Identity) uint64
}
