package transfer

import (
	"context"
	"fmt"
	"sync"

	"github.com/mselser95/parimutuel-engine/internal/escrow"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"go.uber.org/zap"
)

// MemoryBank is an in-process account ledger implementing Service. It backs
// tests and paper mode; a production deployment replaces it with the real
// asset-transfer environment.
type MemoryBank struct {
	mu       sync.Mutex
	balances map[types.Identity]uint64
	logger   *zap.Logger
}

// NewMemoryBank creates an empty bank.
func NewMemoryBank(logger *zap.Logger) *MemoryBank {
	return &MemoryBank{
		balances: make(map[types.Identity]uint64),
		logger:   logger,
	}
}

// Deposit credits an account. Paper-mode faucet; not part of Service.
func (b *MemoryBank) Deposit(account types.Identity, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sum := b.balances[account] + amount
	if sum < b.balances[account] {
		return fmt.Errorf("deposit %d to %s: %w", amount, account, types.ErrOverflow)
	}
	b.balances[account] = sum

	return nil
}

// Balance returns an account's current balance.
func (b *MemoryBank) Balance(account types.Identity) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.balances[account]
}

// Transfer moves the requested amount, verifying the signing authority
// first. Either both balances change or neither does.
func (b *MemoryBank) Transfer(_ context.Context, req Request) error {
	if err := b.authorize(req); err != nil {
		return err
	}

	// A self-transfer would debit and credit the same balance; rejecting
	// it keeps the ledger sum invariant under every accepted request.
	if req.From == req.To {
		return fmt.Errorf("transfer from %s to itself: %w", req.From, types.ErrTransferFailed)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	from := b.balances[req.From]
	if from < req.Amount {
		return fmt.Errorf("account %s holds %d, needs %d: %w",
			req.From, from, req.Amount, types.ErrInsufficientBalance)
	}

	to := b.balances[req.To] + req.Amount
	if to < b.balances[req.To] {
		return fmt.Errorf("credit %s: %w", req.To, types.ErrOverflow)
	}

	b.balances[req.From] = from - req.Amount
	b.balances[req.To] = to

	b.logger.Debug("transfer-executed",
		zap.String("from", req.From.Hex()),
		zap.String("to", req.To.Hex()),
		zap.Uint64("amount", req.Amount))

	return nil
}

func (b *MemoryBank) authorize(req Request) error {
	if req.EscrowProof != nil {
		if !escrow.Verify(req.Market, req.Signer, *req.EscrowProof) {
			return fmt.Errorf("escrow proof for market %s: %w",
				req.Market, types.ErrTransferFailed)
		}
		return nil
	}

	if req.Signer != req.From {
		return fmt.Errorf("signer %s does not own account %s: %w",
			req.Signer, req.From, types.ErrTransferFailed)
	}

	return nil
}
