package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds the Prometheus collectors for the application. When a
// CounterStore is attached, business counters are also persisted so they
// survive process restarts.
type Service struct {
	RoundsSubmitted     prometheus.Counter
	RoundsConsolidated  prometheus.Counter
	RoundsAggregated    prometheus.Counter
	AggregationDuration prometheus.Histogram
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge

	store CounterStore
}
