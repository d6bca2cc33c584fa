package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MarketsCreatedTotal tracks created markets.
	MarketsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parimutuel_markets_created_total",
		Help: "Total number of markets created",
	})

	// MarketsResolvedTotal tracks resolved markets by final outcome.
	MarketsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parimutuel_markets_resolved_total",
			Help: "Total number of markets resolved",
		},
		[]string{"outcome"},
	)

	// BetsPlacedTotal tracks accepted bets by side.
	BetsPlacedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parimutuel_bets_placed_total",
			Help: "Total number of bets placed",
		},
		[]string{"outcome"},
	)

	// BetGrossAmount tracks gross deposit sizes in base units.
	BetGrossAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "parimutuel_bet_gross_amount",
		Help:    "Gross bet amounts in asset base units",
		Buckets: prometheus.ExponentialBuckets(1000, 10, 8),
	})

	// ClaimsPaidTotal tracks settled claims.
	ClaimsPaidTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parimutuel_claims_paid_total",
		Help: "Total number of claims paid out",
	})

	// ClaimPayoutAmount tracks payout sizes in base units.
	ClaimPayoutAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "parimutuel_claim_payout_amount",
		Help:    "Claim payout amounts in asset base units",
		Buckets: prometheus.ExponentialBuckets(1000, 10, 8),
	})

	// FeesSweptTotal accumulates swept fee value.
	FeesSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parimutuel_fees_swept_total",
		Help: "Total fee value swept to the authority, in asset base units",
	})

	// OperationsRejectedTotal tracks rejected operations by op and reason.
	OperationsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parimutuel_operations_rejected_total",
			Help: "Total number of rejected engine operations",
		},
		[]string{"operation", "reason"},
	)
)
