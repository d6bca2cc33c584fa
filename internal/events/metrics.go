package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsPublishedTotal tracks published events by type.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parimutuel_events_published_total",
			Help: "Total number of engine events published",
		},
		[]string{"type"},
	)

	// SubscribersGauge tracks connected WebSocket subscribers.
	SubscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "parimutuel_events_subscribers",
		Help: "Number of connected WebSocket event subscribers",
	})
)
