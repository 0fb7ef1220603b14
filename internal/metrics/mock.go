package metrics

import "sync"

// MockMetrics is a no-op Metrics implementation recording call counts.
type MockMetrics struct {
	mu sync.Mutex

	RoundsSubmittedCount    int
	RoundsConsolidatedCount int
	RoundsAggregatedCount   int
	SlackSentCount          int
	SlackFailedCount        int
}

var _ Metrics = (*MockMetrics)(nil)

func NewMock() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncRoundsSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoundsSubmittedCount++
}

func (m *MockMetrics) IncRoundsConsolidated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoundsConsolidatedCount++
}

func (m *MockMetrics) IncRoundsAggregated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoundsAggregatedCount++
}

func (m *MockMetrics) ObserveAggregationDuration(duration float64) {}

func (m *MockMetrics) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackSentCount++
}

func (m *MockMetrics) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackFailedCount++
}

func (m *MockMetrics) SetStartupTime(duration float64) {}
