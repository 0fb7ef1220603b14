package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRoundsSubmitted()
	IncRoundsConsolidated()
	IncRoundsAggregated()
	ObserveAggregationDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// CounterStore persists coarse business counters in the database so they
// survive restarts, unlike the in-process Prometheus registry.
type CounterStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
