package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RoundsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_rounds_submitted_total",
			Help: "The total number of scorecard submissions accepted.",
		}),
		RoundsConsolidated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_rounds_consolidated_total",
			Help: "The total number of submissions merged into an existing round.",
		}),
		RoundsAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_tournament_rounds_aggregated_total",
			Help: "The total number of rounds folded into tournament results.",
		}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "golf_tournament_aggregation_duration_seconds",
			Help:    "The duration of individual tournament aggregations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "golf_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "golf_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RoundsSubmitted,
		s.RoundsConsolidated,
		s.RoundsAggregated,
		s.AggregationDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

// WithStore attaches a persistent counter store to the service and returns it.
func (s *Service) WithStore(store CounterStore) *Service {
	s.store = store
	return s
}

func (s *Service) persist(key string) {
	if s.store != nil {
		s.store.Increment(key)
	}
}

func (s *Service) IncRoundsSubmitted() {
	s.RoundsSubmitted.Inc()
	s.persist("rounds_submitted")
}

func (s *Service) IncRoundsConsolidated() {
	s.RoundsConsolidated.Inc()
	s.persist("rounds_consolidated")
}

// IncRoundsAggregated is called while the aggregation transaction is still
// open; with the single-connection sqlite pool a store write here would
// deadlock, so this counter stays in-process only.
func (s *Service) IncRoundsAggregated() {
	s.RoundsAggregated.Inc()
}

func (s *Service) ObserveAggregationDuration(duration float64) {
	s.AggregationDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
	s.persist("slack_notifications_sent")
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
	s.persist("slack_notifications_failed")
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
