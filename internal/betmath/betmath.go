// Package betmath holds the pure fee and payout arithmetic for the engine.
//
// All intermediate products are computed on 256-bit integers so no valid
// uint64 input can wrap; anything that cannot narrow back to uint64 is an
// ErrOverflow, never a truncated value.
package betmath

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/mselser95/parimutuel-engine/pkg/types"
)

const (
	// FeeRateBPS is the deposit fee in basis points (3%).
	FeeRateBPS = 300
	// BPSDenom is one hundred percent in basis points.
	BPSDenom = 10_000
	// MaxPositionWholeTokens caps a position's cumulative net stake at
	// 100 whole tokens of the market's asset.
	MaxPositionWholeTokens = 100
)

// SplitFee splits a gross deposit into fee and net stake.
// fee = floor(amount * FeeRateBPS / BPSDenom), net = amount - fee.
func SplitFee(amount uint64) (fee, net uint64) {
	f := new(uint256.Int).SetUint64(amount)
	f.Mul(f, uint256.NewInt(FeeRateBPS))
	f.Div(f, uint256.NewInt(BPSDenom))

	// amount * 300 / 10000 <= amount, always narrows
	fee = f.Uint64()

	return fee, amount - fee
}

// PositionCap returns the cumulative net stake limit for an asset with the
// given number of decimals: 100 * 10^decimals base units.
func PositionCap(decimals uint8) *uint256.Int {
	limit := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
	return limit.Mul(limit, uint256.NewInt(MaxPositionWholeTokens))
}

// CheckCap verifies that adding net stake to a position's prior total stays
// within the cap and returns the new total. It fails closed: a deposit that
// would exceed the cap is rejected outright, never clamped.
func CheckCap(priorNetTotal, net uint64, decimals uint8) (uint64, error) {
	total := new(uint256.Int).SetUint64(priorNetTotal)
	total.Add(total, new(uint256.Int).SetUint64(net))

	if total.Gt(PositionCap(decimals)) {
		return 0, fmt.Errorf("position total %s exceeds cap: %w", total, types.ErrBetExceedsLimit)
	}
	if !total.IsUint64() {
		return 0, types.ErrOverflow
	}

	return total.Uint64(), nil
}

// AddPool adds net stake to a pool with an explicit overflow check.
func AddPool(pool, net uint64) (uint64, error) {
	sum := pool + net
	if sum < pool {
		return 0, fmt.Errorf("pool %d + %d: %w", pool, net, types.ErrOverflow)
	}

	return sum, nil
}

// Payout computes the proportional winner payout
// floor(totalPool * participantNet / winningPool).
//
// The floor division guarantees the sum of all payouts never exceeds the
// total pool; inexact division leaves bounded dust in escrow.
func Payout(totalPool, winningPool, participantNet uint64) (uint64, error) {
	if winningPool == 0 {
		return 0, types.ErrNoPayout
	}

	p := new(uint256.Int).SetUint64(totalPool)
	p.Mul(p, new(uint256.Int).SetUint64(participantNet))
	p.Div(p, new(uint256.Int).SetUint64(winningPool))

	if !p.IsUint64() {
		return 0, fmt.Errorf("payout %s does not fit uint64: %w", p, types.ErrOverflow)
	}

	return p.Uint64(), nil
}

// TotalPool adds the two side pools with an overflow check.
func TotalPool(poolYes, poolNo uint64) (uint64, error) {
	return AddPool(poolYes, poolNo)
}
