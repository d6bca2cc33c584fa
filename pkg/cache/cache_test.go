package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T, ttl time.Duration) *MarketCache {
	t.Helper()

	c, err := New(&Config{
		NumCounters: 1000,
		MaxItems:    100,
		TTL:         ttl,
		Logger:      zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(c.Close)

	return c
}

func TestPutGet(t *testing.T) {
	c := newTestCache(t, time.Minute)

	m := &types.Market{ID: uuid.New(), PoolYes: 970}
	c.Put(m)
	c.Wait()

	got, ok := c.Get(m.ID)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.PoolYes != 970 {
		t.Errorf("PoolYes %d, want 970", got.PoolYes)
	}

	// Snapshots are copies; mutating one must not poison the cache.
	got.PoolYes = 1
	again, _ := c.Get(m.ID)
	if again.PoolYes != 970 {
		t.Error("cached record mutated through returned snapshot")
	}
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t, time.Minute)

	if _, ok := c.Get(uuid.New()); ok {
		t.Error("expected miss for unknown market")
	}
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(t, time.Minute)

	m := &types.Market{ID: uuid.New()}
	c.Put(m)
	c.Wait()

	c.Invalidate(m.ID)
	c.Wait()

	if _, ok := c.Get(m.ID); ok {
		t.Error("expected miss after invalidation")
	}
}
