// Package cache provides a short-TTL snapshot cache for market records on
// the HTTP read path. Writes to a market invalidate its entry so state
// transitions are visible immediately.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"go.uber.org/zap"
)

// MarketCache caches Market snapshots by identifier.
type MarketCache struct {
	cache  *ristretto.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// Config holds cache configuration.
type Config struct {
	NumCounters int64 // keys tracked for frequency (10x max items)
	MaxItems    int64
	TTL         time.Duration
	Logger      *zap.Logger
}

// New creates a ristretto-backed market cache.
func New(cfg *Config) (*MarketCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxItems,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	return &MarketCache{
		cache:  cache,
		ttl:    cfg.TTL,
		logger: cfg.Logger,
	}, nil
}

// Get returns a cached market snapshot.
func (c *MarketCache) Get(id uuid.UUID) (*types.Market, bool) {
	value, found := c.cache.Get(id.String())
	if !found {
		MissesTotal.Inc()
		return nil, false
	}

	m, ok := value.(*types.Market)
	if !ok {
		MissesTotal.Inc()
		return nil, false
	}

	HitsTotal.Inc()
	c.logger.Debug("market-cache-hit", zap.String("market-id", id.String()))

	// Callers may mutate the snapshot freely.
	return m.Clone(), true
}

// Put stores a market snapshot under the configured TTL.
func (c *MarketCache) Put(m *types.Market) {
	if c.cache.SetWithTTL(m.ID.String(), m.Clone(), 1, c.ttl) {
		SetsTotal.Inc()
	}
}

// Invalidate drops the snapshot for a market. Engine write paths call this
// after every successful mutation.
func (c *MarketCache) Invalidate(id uuid.UUID) {
	c.cache.Del(id.String())
	InvalidationsTotal.Inc()
}

// Wait blocks until buffered writes are applied. Tests use this; ristretto
// sets are asynchronous.
func (c *MarketCache) Wait() {
	c.cache.Wait()
}

// Close releases cache resources.
func (c *MarketCache) Close() {
	c.cache.Close()
	c.logger.Info("market-cache-closed")
}
