package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/pkg/types"
)

type positionKey struct {
	market uuid.UUID
	owner  types.Identity
}

// MemoryStore is an in-process Store used for tests and memory mode.
type MemoryStore struct {
	mu        sync.RWMutex
	markets   map[uuid.UUID]*types.Market
	positions map[positionKey]*types.Position
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		markets:   make(map[uuid.UUID]*types.Market),
		positions: make(map[positionKey]*types.Position),
	}
}

// CreateMarket stores a new market record.
func (s *MemoryStore) CreateMarket(_ context.Context, m *types.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markets[m.ID]; ok {
		return fmt.Errorf("market %s already exists", m.ID)
	}

	s.markets[m.ID] = m.Clone()

	return nil
}

// GetMarket returns a copy of the market record.
func (s *MemoryStore) GetMarket(_ context.Context, id uuid.UUID) (*types.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.markets[id]
	if !ok {
		return nil, fmt.Errorf("market %s: %w", id, types.ErrMarketNotFound)
	}

	return m.Clone(), nil
}

// UpdateMarket overwrites an existing market record.
func (s *MemoryStore) UpdateMarket(_ context.Context, m *types.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markets[m.ID]; !ok {
		return fmt.Errorf("market %s: %w", m.ID, types.ErrMarketNotFound)
	}

	s.markets[m.ID] = m.Clone()

	return nil
}

// ListMarkets returns all markets ordered by creation time.
func (s *MemoryStore) ListMarkets(_ context.Context) ([]*types.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Market, 0, len(s.markets))
	for _, m := range s.markets {
		out = append(out, m.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// GetPosition returns a copy of the (market, owner) position.
func (s *MemoryStore) GetPosition(_ context.Context, market uuid.UUID, owner types.Identity) (*types.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.positions[positionKey{market: market, owner: owner}]
	if !ok {
		return nil, fmt.Errorf("position %s/%s: %w", market, owner, types.ErrPositionNotFound)
	}

	return p.Clone(), nil
}

// ApplyBet writes the market and position together under one lock.
func (s *MemoryStore) ApplyBet(_ context.Context, m *types.Market, p *types.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markets[m.ID]; !ok {
		return fmt.Errorf("market %s: %w", m.ID, types.ErrMarketNotFound)
	}

	s.markets[m.ID] = m.Clone()
	s.positions[positionKey{market: p.Market, owner: p.Owner}] = p.Clone()

	return nil
}

// SettleClaim removes the position record entirely.
func (s *MemoryStore) SettleClaim(_ context.Context, market uuid.UUID, owner types.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := positionKey{market: market, owner: owner}
	if _, ok := s.positions[key]; !ok {
		return fmt.Errorf("position %s/%s: %w", market, owner, types.ErrPositionNotFound)
	}

	delete(s.positions, key)

	return nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
