// Package httpserver exposes the engine's operations and read surface
// over HTTP. The environment in front of this server is responsible for
// authenticating callers; the identity it verified arrives in the
// X-Caller-Identity header.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mselser95/parimutuel-engine/internal/engine"
	"github.com/mselser95/parimutuel-engine/internal/events"
	"github.com/mselser95/parimutuel-engine/internal/transfer"
	"github.com/mselser95/parimutuel-engine/pkg/cache"
	"github.com/mselser95/parimutuel-engine/pkg/healthprobe"
	"github.com/mselser95/parimutuel-engine/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server provides the HTTP surface: operations, reads, metrics, health.
type Server struct {
	server        *http.Server
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
}

// Config holds server configuration.
type Config struct {
	Port          string
	Logger        *zap.Logger
	HealthChecker *healthprobe.HealthChecker
	Engine        *engine.Engine
	MarketCache   *cache.MarketCache
	EventHub      *events.Hub

	// Funder enables the paper-mode faucet routes. Nil when the bank
	// cannot mint, in which case the account routes are not mounted.
	Funder    transfer.Funder
	Authority types.Identity
}

// New creates a new HTTP server.
func New(cfg *Config) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Operational routes
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/health", cfg.HealthChecker.Health())
	r.Get("/ready", cfg.HealthChecker.Ready())

	if cfg.EventHub != nil {
		r.Get("/ws", cfg.EventHub.ServeHTTP)
	}

	h := newHandler(cfg.Engine, cfg.MarketCache, cfg.Logger)

	if cfg.Funder != nil {
		f := &faucetHandler{
			handler:   h,
			funder:    cfg.Funder,
			authority: cfg.Authority,
		}
		r.Route("/api/accounts", func(r chi.Router) {
			r.Post("/{owner}/deposit", f.deposit)
			r.Get("/{owner}/balance", f.balance)
		})
	}

	r.Route("/api/markets", func(r chi.Router) {
		r.Get("/", h.listMarkets)
		r.Post("/", h.createMarket)
		r.Get("/{marketID}", h.getMarket)
		r.Patch("/{marketID}/deadline", h.updateDeadline)
		r.Post("/{marketID}/resolve", h.resolveMarket)
		r.Post("/{marketID}/bets", h.placeBet)
		r.Post("/{marketID}/claim", h.claim)
		r.Post("/{marketID}/sweep", h.sweepFees)
		r.Get("/{marketID}/positions/{owner}", h.getPosition)
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		server:        server,
		logger:        cfg.Logger,
		healthChecker: cfg.HealthChecker,
	}
}

// Handler returns the configured HTTP handler (used in tests).
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
// This is a blocking call that returns when the server stops or encounters an error.
func (s *Server) Start() error {
	s.logger.Info("http-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-shutting-down")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http-server-shutdown-complete")
	return nil
}
