package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_receiver_events_total",
			Help: "Total number of webhook payloads received",
		},
		[]string{"mode", "status"},
	)

	IgnoredEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_receiver_ignored_events_total",
			Help: "Total number of acknowledged-but-ignored structured events",
		},
		[]string{"reason"},
	)

	// Store metrics
	StoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_receiver_store_duration_seconds",
			Help:    "Duration of store write operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StoreErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_receiver_store_errors_total",
			Help: "Total number of store backend errors",
		},
	)
)
