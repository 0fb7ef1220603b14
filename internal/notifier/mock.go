package notifier

import (
	"sync"

	"github.com/birdiebook/birdiebook/internal/tournament"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendResultNotificationCalls []struct{ Result *RoundResult }
	SendLeaderboardCalls        []struct {
		TournamentName string
		Results        []tournament.Result
	}
	SendTournamentNotFoundCalls []string

	FormatLeaderboardResponseFunc        func(tournamentName string, results []tournament.Result) (any, error)
	FormatTournamentNotFoundResponseFunc func(query string) (any, error)

	LastLeaderboardResponse any
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendLeaderboardCalls = nil
	m.SendTournamentNotFoundCalls = nil
	m.LastLeaderboardResponse = nil
}

func (m *Mock) SendResultNotification(result *RoundResult, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct{ Result *RoundResult }{result})
	return nil
}

func (m *Mock) SendLeaderboard(tournamentName string, results []tournament.Result, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, struct {
		TournamentName string
		Results        []tournament.Result
	}{tournamentName, results})
	return nil
}

func (m *Mock) SendTournamentNotFound(query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendTournamentNotFoundCalls = append(m.SendTournamentNotFoundCalls, query)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(tournamentName string, results []tournament.Result) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(tournamentName, results)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatTournamentNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatTournamentNotFoundResponseFunc != nil {
		return m.FormatTournamentNotFoundResponseFunc(query)
	}
	return "formatted_tournament_not_found", nil
}
