package app

import (
	"context"
	"fmt"

	"github.com/mselser95/parimutuel-engine/internal/engine"
	"github.com/mselser95/parimutuel-engine/internal/events"
	"github.com/mselser95/parimutuel-engine/internal/guard"
	"github.com/mselser95/parimutuel-engine/internal/storage"
	"github.com/mselser95/parimutuel-engine/internal/transfer"
	"github.com/mselser95/parimutuel-engine/pkg/cache"
	"github.com/mselser95/parimutuel-engine/pkg/config"
	"github.com/mselser95/parimutuel-engine/pkg/healthprobe"
	"github.com/mselser95/parimutuel-engine/pkg/httpserver"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	marketCache, err := setupCache(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	store, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	bank := opts.Bank
	if bank == nil {
		bank = transfer.NewMemoryBank(logger)
	}

	eventHub := events.NewHub(logger)

	eng := engine.New(engine.Config{
		Store:     store,
		Bank:      bank,
		Guard:     guard.New(cfg.AuthorityAddress),
		Logger:    logger,
		Publisher: eventHub,
	})

	httpServer := setupHTTPServer(cfg, logger, healthChecker, eng, marketCache, eventHub, bank)

	healthChecker.AddCheck("storage", store.Ping)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		store:         store,
		bank:          bank,
		engine:        eng,
		eventHub:      eventHub,
		marketCache:   marketCache,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Engine exposes the state-transition core (used in tests).
func (a *App) Engine() *engine.Engine {
	return a.engine
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	eng *engine.Engine,
	marketCache *cache.MarketCache,
	eventHub *events.Hub,
	bank transfer.Service,
) *httpserver.Server {
	// Paper-mode banks expose a faucet so a standalone instance can fund
	// bettors; against a real settlement ledger the routes stay unmounted.
	funder, _ := bank.(transfer.Funder)

	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Engine:        eng,
		MarketCache:   marketCache,
		EventHub:      eventHub,
		Funder:        funder,
		Authority:     cfg.AuthorityAddress,
	})
}

func setupCache(cfg *config.Config, logger *zap.Logger) (*cache.MarketCache, error) {
	return cache.New(&cache.Config{
		NumCounters: 10000, // 10x expected max items (1000 markets)
		MaxItems:    1000,
		TTL:         cfg.MarketCacheTTL,
		Logger:      logger,
	})
}

func setupStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	if cfg.StorageMode == "postgres" {
		pgStore, err := storage.NewPostgresStore(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres store: %w", err)
		}

		err = pgStore.Migrate(ctx)
		if err != nil {
			return nil, fmt.Errorf("migrate postgres store: %w", err)
		}

		return pgStore, nil
	}

	logger.Info("memory-store-selected",
		zap.String("note", "records are lost on restart"))

	return storage.NewMemoryStore(), nil
}
