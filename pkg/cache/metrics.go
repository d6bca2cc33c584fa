package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	HitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parimutuel_market_cache_hits_total",
		Help: "Total number of market cache hits",
	})

	MissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parimutuel_market_cache_misses_total",
		Help: "Total number of market cache misses",
	})

	SetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parimutuel_market_cache_sets_total",
		Help: "Total number of market cache sets",
	})

	InvalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parimutuel_market_cache_invalidations_total",
		Help: "Total number of market cache invalidations",
	})
)
