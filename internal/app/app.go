// Package app wires the engine, storage, transfer bank, event hub and
// HTTP surface into a runnable service.
package app

import (
	"context"
	"sync"

	"github.com/mselser95/parimutuel-engine/internal/engine"
	"github.com/mselser95/parimutuel-engine/internal/events"
	"github.com/mselser95/parimutuel-engine/internal/storage"
	"github.com/mselser95/parimutuel-engine/internal/transfer"
	"github.com/mselser95/parimutuel-engine/pkg/cache"
	"github.com/mselser95/parimutuel-engine/pkg/config"
	"github.com/mselser95/parimutuel-engine/pkg/healthprobe"
	"github.com/mselser95/parimutuel-engine/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	store         storage.Store
	bank          transfer.Service
	engine        *engine.Engine
	eventHub      *events.Hub
	marketCache   *cache.MarketCache
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// Bank overrides the default in-memory settlement bank. Used by tests
	// and by deployments that settle against an external ledger.
	Bank transfer.Service
}
