// Package escrow derives the holding account and signing authority for a
// market's escrow from the market identifier alone. The derivation is pure
// and reproducible by both the engine and the execution environment, so the
// authority never needs private state of its own.
package escrow

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/pkg/types"
)

// Domain separators keep the account and authority derivations disjoint.
var (
	authoritySeed = []byte("escrow-authority")
	accountSeed   = []byte("escrow-account")
)

// Proof is the full derivation digest for an escrow authority. The transfer
// collaborator checks it against the market identifier before honoring a
// withdrawal signed by the derived authority.
type Proof [32]byte

// String returns the proof as 0x-prefixed hex.
func (p Proof) String() string {
	return hexutil.Encode(p[:])
}

// DeriveAuthority returns the escrow signing authority for a market and the
// proof of its derivation.
func DeriveAuthority(marketID uuid.UUID) (types.Identity, Proof) {
	digest := crypto.Keccak256(authoritySeed, marketID[:])

	var proof Proof
	copy(proof[:], digest)

	return common.BytesToAddress(digest[12:]), proof
}

// DeriveAccount returns the escrow holding account for a market.
func DeriveAccount(marketID uuid.UUID) types.Identity {
	digest := crypto.Keccak256(accountSeed, marketID[:])
	return common.BytesToAddress(digest[12:])
}

// Verify reports whether authority and proof are the valid derivation for
// the given market.
func Verify(marketID uuid.UUID, authority types.Identity, proof Proof) bool {
	derived, want := DeriveAuthority(marketID)
	return derived == authority && bytes.Equal(want[:], proof[:])
}
