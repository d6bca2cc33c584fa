// Package engine is the deterministic state-transition core of the
// pari-mutuel market. Each operation is invoked once at a time by the
// environment with an already-authenticated caller and the current time,
// performs its checks and arithmetic, issues at most one transfer, and
// commits its record mutations atomically.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/internal/betmath"
	"github.com/mselser95/parimutuel-engine/internal/escrow"
	"github.com/mselser95/parimutuel-engine/internal/events"
	"github.com/mselser95/parimutuel-engine/internal/guard"
	"github.com/mselser95/parimutuel-engine/internal/storage"
	"github.com/mselser95/parimutuel-engine/internal/transfer"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"go.uber.org/zap"
)

// Clock supplies the current time. The environment owns time; tests inject
// a fixed clock.
type Clock func() time.Time

// Publisher receives engine events. The events hub implements it.
type Publisher interface {
	Publish(ev events.Event)
}

// Engine owns the Market state machine and the Position ledger.
type Engine struct {
	store  storage.Store
	bank   transfer.Service
	guard  *guard.Guard
	clock  Clock
	logger *zap.Logger
	pub    Publisher
}

// Config holds the engine's collaborators.
type Config struct {
	Store     storage.Store
	Bank      transfer.Service
	Guard     *guard.Guard
	Clock     Clock
	Logger    *zap.Logger
	Publisher Publisher
}

// New creates an engine. A nil Clock defaults to time.Now; a nil Publisher
// drops events.
func New(cfg Config) *Engine {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	pub := cfg.Publisher
	if pub == nil {
		pub = nopPublisher{}
	}

	return &Engine{
		store:  cfg.Store,
		bank:   cfg.Bank,
		guard:  cfg.Guard,
		clock:  clock,
		logger: cfg.Logger,
		pub:    pub,
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}

// CreateMarket initializes a new market with empty pools. Authority-only.
//
// The deadline is deliberately not validated against the current time
// here, unlike UpdateDeadline: the authority is trusted to supply a sane
// deadline at creation, and a past deadline simply yields a market that is
// born closed.
func (e *Engine) CreateMarket(ctx context.Context, caller types.Identity, assetKind string, assetDecimals uint8, deadline time.Time) (*types.Market, error) {
	if err := e.guard.Check(caller); err != nil {
		return nil, e.reject("create_market", err)
	}

	id := uuid.New()
	authority, _ := escrow.DeriveAuthority(id)

	m := &types.Market{
		ID:              id,
		Creator:         caller,
		AssetKind:       assetKind,
		AssetDecimals:   assetDecimals,
		EscrowAccount:   escrow.DeriveAccount(id),
		EscrowAuthority: authority,
		Deadline:        deadline.UTC(),
		Resolved:        false,
		WinningOutcome:  types.OutcomeUnset,
		CreatedAt:       e.clock().UTC(),
	}

	if err := e.store.CreateMarket(ctx, m); err != nil {
		return nil, e.reject("create_market", err)
	}

	MarketsCreatedTotal.Inc()
	e.logger.Info("market-created",
		zap.String("market-id", m.ID.String()),
		zap.String("asset-kind", m.AssetKind),
		zap.Time("deadline", m.Deadline))
	e.pub.Publish(events.Event{
		Type:      events.TypeMarketCreated,
		MarketID:  m.ID,
		Actor:     caller,
		Timestamp: m.CreatedAt,
	})

	return m, nil
}

// UpdateDeadline moves an unresolved market's deadline. Authority-only.
// The market must still be open and the new deadline strictly in the
// future; a deadline cannot be extended after betting has closed.
func (e *Engine) UpdateDeadline(ctx context.Context, caller types.Identity, marketID uuid.UUID, newDeadline time.Time) (*types.Market, error) {
	if err := e.guard.Check(caller); err != nil {
		return nil, e.reject("update_deadline", err)
	}

	m, err := e.store.GetMarket(ctx, marketID)
	if err != nil {
		return nil, e.reject("update_deadline", err)
	}

	if m.Resolved {
		return nil, e.reject("update_deadline", types.ErrAlreadyResolved)
	}

	now := e.clock()
	if !now.Before(m.Deadline) {
		return nil, e.reject("update_deadline", types.ErrBettingClosed)
	}
	if !newDeadline.After(now) {
		return nil, e.reject("update_deadline", types.ErrInvalidDeadline)
	}

	m.Deadline = newDeadline.UTC()

	if err := e.store.UpdateMarket(ctx, m); err != nil {
		return nil, e.reject("update_deadline", err)
	}

	e.logger.Info("deadline-updated",
		zap.String("market-id", m.ID.String()),
		zap.Time("deadline", m.Deadline))
	e.pub.Publish(events.Event{
		Type:      events.TypeDeadlineUpdated,
		MarketID:  m.ID,
		Actor:     caller,
		Timestamp: now.UTC(),
	})

	return m, nil
}

// PlaceBet stakes amount on an outcome. The gross amount (fee included)
// moves into escrow; only the net contributes to the chosen pool, and the
// fee accrues for a later sweep. The first bet fixes the position's side.
func (e *Engine) PlaceBet(ctx context.Context, caller types.Identity, marketID uuid.UUID, assetKind string, outcome types.Outcome, amount uint64) (*types.Position, error) {
	if amount == 0 {
		return nil, e.reject("place_bet", types.ErrInvalidAmount)
	}
	if !outcome.Bettable() {
		return nil, e.reject("place_bet", fmt.Errorf("bet on %s: %w", outcome, types.ErrInvalidOutcome))
	}

	m, err := e.store.GetMarket(ctx, marketID)
	if err != nil {
		return nil, e.reject("place_bet", err)
	}

	if m.Resolved {
		return nil, e.reject("place_bet", types.ErrMarketResolved)
	}

	now := e.clock()
	if !now.Before(m.Deadline) {
		return nil, e.reject("place_bet", types.ErrBettingClosed)
	}
	if assetKind != m.AssetKind {
		return nil, e.reject("place_bet", fmt.Errorf("presented %q, market takes %q: %w",
			assetKind, m.AssetKind, types.ErrWrongAsset))
	}

	fee, net := betmath.SplitFee(amount)

	p, err := e.store.GetPosition(ctx, marketID, caller)
	switch {
	case err == nil:
		if p.Outcome != outcome {
			return nil, e.reject("place_bet", types.ErrCannotSwitchSide)
		}
	case isNotFound(err):
		p = &types.Position{
			Owner:     caller,
			Market:    marketID,
			Outcome:   outcome,
			CreatedAt: now.UTC(),
		}
	default:
		return nil, e.reject("place_bet", err)
	}

	newTotal, err := betmath.CheckCap(p.Amount, net, m.AssetDecimals)
	if err != nil {
		return nil, e.reject("place_bet", err)
	}

	pool, err := betmath.AddPool(m.Pool(outcome), net)
	if err != nil {
		return nil, e.reject("place_bet", err)
	}
	fees, err := betmath.AddPool(m.FeesAccrued, fee)
	if err != nil {
		return nil, e.reject("place_bet", err)
	}

	// One transfer per operation: gross deposit into escrow, signed by
	// the participant. The fee stays inside escrow until swept.
	err = e.bank.Transfer(ctx, transfer.Request{
		From:   caller,
		To:     m.EscrowAccount,
		Amount: amount,
		Signer: caller,
		Market: marketID,
	})
	if err != nil {
		return nil, e.reject("place_bet", err)
	}

	p.Amount = newTotal
	p.UpdatedAt = now.UTC()
	switch outcome {
	case types.OutcomeYes:
		m.PoolYes = pool
	case types.OutcomeNo:
		m.PoolNo = pool
	}
	m.FeesAccrued = fees

	if err := e.store.ApplyBet(ctx, m, p); err != nil {
		// The deposit already reached escrow with no record of it; the
		// ledger and the store disagree until someone reconciles them.
		e.logger.Error("bet-commit-failed-after-transfer",
			zap.String("market-id", m.ID.String()),
			zap.String("bettor", caller.Hex()),
			zap.Uint64("gross", amount),
			zap.Error(err))
		return nil, e.reject("place_bet", err)
	}

	BetsPlacedTotal.WithLabelValues(outcome.String()).Inc()
	BetGrossAmount.Observe(float64(amount))
	e.logger.Info("bet-placed",
		zap.String("market-id", m.ID.String()),
		zap.String("bettor", caller.Hex()),
		zap.String("outcome", outcome.String()),
		zap.Uint64("gross", amount),
		zap.Uint64("net", net),
		zap.Uint64("fee", fee))
	e.pub.Publish(events.Event{
		Type:      events.TypeBetPlaced,
		MarketID:  m.ID,
		Actor:     caller,
		Outcome:   outcome,
		Amount:    amount,
		Timestamp: now.UTC(),
	})

	return p, nil
}

// Resolve fixes the market's final outcome. Authority-only, and only once
// the deadline has passed. If either pool is empty the outcome is forced
// to Void regardless of the proposal: no payout ratio is computable for a
// one-sided market. The transition is irreversible.
func (e *Engine) Resolve(ctx context.Context, caller types.Identity, marketID uuid.UUID, proposed types.Outcome) (*types.Market, error) {
	if err := e.guard.Check(caller); err != nil {
		return nil, e.reject("resolve", err)
	}

	m, err := e.store.GetMarket(ctx, marketID)
	if err != nil {
		return nil, e.reject("resolve", err)
	}

	if m.Resolved {
		return nil, e.reject("resolve", types.ErrAlreadyResolved)
	}

	now := e.clock()
	if now.Before(m.Deadline) {
		return nil, e.reject("resolve", fmt.Errorf("deadline %s: %w",
			m.Deadline.Format(time.RFC3339), types.ErrTooEarly))
	}

	final := proposed
	if m.PoolYes == 0 || m.PoolNo == 0 {
		final = types.OutcomeVoid
	} else if !proposed.Bettable() {
		return nil, e.reject("resolve", fmt.Errorf("resolve to %s: %w",
			proposed, types.ErrInvalidOutcome))
	}

	m.Resolved = true
	m.WinningOutcome = final

	if err := e.store.UpdateMarket(ctx, m); err != nil {
		return nil, e.reject("resolve", err)
	}

	MarketsResolvedTotal.WithLabelValues(final.String()).Inc()
	e.logger.Info("market-resolved",
		zap.String("market-id", m.ID.String()),
		zap.String("outcome", final.String()),
		zap.Uint64("pool-yes", m.PoolYes),
		zap.Uint64("pool-no", m.PoolNo))
	e.pub.Publish(events.Event{
		Type:      events.TypeMarketResolved,
		MarketID:  m.ID,
		Actor:     caller,
		Outcome:   final,
		Timestamp: now.UTC(),
	})

	return m, nil
}

// Claim pays out a position on a resolved market and terminates the
// record. Void markets refund the net stake; otherwise only the winning
// side is paid, proportionally to its share of the winning pool. The
// record's removal is what makes a second claim impossible.
func (e *Engine) Claim(ctx context.Context, caller types.Identity, marketID uuid.UUID) (uint64, error) {
	m, err := e.store.GetMarket(ctx, marketID)
	if err != nil {
		return 0, e.reject("claim", err)
	}

	if !m.Resolved {
		return 0, e.reject("claim", types.ErrNotResolved)
	}

	p, err := e.store.GetPosition(ctx, marketID, caller)
	if err != nil {
		return 0, e.reject("claim", err)
	}
	if p.Claimed {
		return 0, e.reject("claim", types.ErrAlreadyClaimed)
	}
	if p.Market != m.ID {
		return 0, e.reject("claim", types.ErrWrongMarket)
	}

	var payout uint64
	if m.WinningOutcome == types.OutcomeVoid {
		if p.Amount == 0 {
			return 0, e.reject("claim", types.ErrNoPayout)
		}
		payout = p.Amount
	} else {
		if p.Outcome != m.WinningOutcome {
			return 0, e.reject("claim", types.ErrNoPayout)
		}

		total, err := betmath.TotalPool(m.PoolYes, m.PoolNo)
		if err != nil {
			return 0, e.reject("claim", err)
		}

		payout, err = betmath.Payout(total, m.Pool(m.WinningOutcome), p.Amount)
		if err != nil {
			return 0, e.reject("claim", err)
		}
	}

	authority, proof := escrow.DeriveAuthority(m.ID)
	err = e.bank.Transfer(ctx, transfer.Request{
		From:        m.EscrowAccount,
		To:          caller,
		Amount:      payout,
		Signer:      authority,
		Market:      m.ID,
		EscrowProof: &proof,
	})
	if err != nil {
		return 0, e.reject("claim", err)
	}

	if err := e.store.SettleClaim(ctx, marketID, caller); err != nil {
		// The payout has left escrow but the position record survives
		// and could be claimed again; reconcile before resuming.
		e.logger.Error("claim-commit-failed-after-transfer",
			zap.String("market-id", m.ID.String()),
			zap.String("bettor", caller.Hex()),
			zap.Uint64("payout", payout),
			zap.Error(err))
		return 0, e.reject("claim", err)
	}

	ClaimsPaidTotal.Inc()
	ClaimPayoutAmount.Observe(float64(payout))
	e.logger.Info("claim-paid",
		zap.String("market-id", m.ID.String()),
		zap.String("bettor", caller.Hex()),
		zap.Uint64("payout", payout))
	e.pub.Publish(events.Event{
		Type:      events.TypeClaimPaid,
		MarketID:  m.ID,
		Actor:     caller,
		Outcome:   m.WinningOutcome,
		Amount:    payout,
		Timestamp: e.clock().UTC(),
	})

	return payout, nil
}

// SweepFees drains the accrued fee balance from escrow to the authority's
// holding account. Authority-only; sweeping an empty balance is an error,
// not a zero transfer.
func (e *Engine) SweepFees(ctx context.Context, caller types.Identity, marketID uuid.UUID) (uint64, error) {
	if err := e.guard.Check(caller); err != nil {
		return 0, e.reject("sweep_fees", err)
	}

	m, err := e.store.GetMarket(ctx, marketID)
	if err != nil {
		return 0, e.reject("sweep_fees", err)
	}

	amount := m.FeesAccrued
	if amount == 0 {
		return 0, e.reject("sweep_fees", types.ErrNoFees)
	}

	authority, proof := escrow.DeriveAuthority(m.ID)
	err = e.bank.Transfer(ctx, transfer.Request{
		From:        m.EscrowAccount,
		To:          caller,
		Amount:      amount,
		Signer:      authority,
		Market:      m.ID,
		EscrowProof: &proof,
	})
	if err != nil {
		return 0, e.reject("sweep_fees", err)
	}

	m.FeesAccrued = 0

	if err := e.store.UpdateMarket(ctx, m); err != nil {
		// Fees already left escrow but the accrual was not zeroed; a
		// retry would sweep them twice. Reconcile before resuming.
		e.logger.Error("sweep-commit-failed-after-transfer",
			zap.String("market-id", m.ID.String()),
			zap.Uint64("amount", amount),
			zap.Error(err))
		return 0, e.reject("sweep_fees", err)
	}

	FeesSweptTotal.Add(float64(amount))
	e.logger.Info("fees-swept",
		zap.String("market-id", m.ID.String()),
		zap.Uint64("amount", amount))
	e.pub.Publish(events.Event{
		Type:      events.TypeFeesSwept,
		MarketID:  m.ID,
		Actor:     caller,
		Amount:    amount,
		Timestamp: e.clock().UTC(),
	})

	return amount, nil
}

// GetMarket returns a market record.
func (e *Engine) GetMarket(ctx context.Context, id uuid.UUID) (*types.Market, error) {
	return e.store.GetMarket(ctx, id)
}

// ListMarkets returns all markets.
func (e *Engine) ListMarkets(ctx context.Context) ([]*types.Market, error) {
	return e.store.ListMarkets(ctx)
}

// GetPosition returns a position record.
func (e *Engine) GetPosition(ctx context.Context, market uuid.UUID, owner types.Identity) (*types.Position, error) {
	return e.store.GetPosition(ctx, market, owner)
}

// Now exposes the engine's clock, so callers derive market state from the
// same time source the operations use.
func (e *Engine) Now() time.Time {
	return e.clock()
}

func (e *Engine) reject(op string, err error) error {
	OperationsRejectedTotal.WithLabelValues(op, reasonLabel(err)).Inc()
	return err
}
