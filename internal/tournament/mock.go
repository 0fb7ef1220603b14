package tournament

import (
	"database/sql"
	"sync"
)

// MockAggregator is a mock implementation of the Aggregator interface for testing.
type MockAggregator struct {
	mu sync.Mutex

	CreateTournamentFunc     func(name string, startDate, endDate int64) (string, error)
	GetTournamentFunc        func(tournamentID string) (*Tournament, error)
	GetAllTournamentsFunc    func() ([]Tournament, error)
	AddRoundToTournamentFunc func(tournamentID, roundID string) error
	ReevaluateRoundTxFunc    func(tx *sql.Tx, roundID string) error
	ResultsFunc              func(tournamentID string) ([]Result, error)
	RoundBreakdownFunc       func(tournamentID string) ([]TournamentRound, error)

	AddRoundCalls []struct {
		TournamentID string
		RoundID      string
	}
	ReevaluateCalls []string
}

var _ Aggregator = (*MockAggregator)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockAggregator {
	return &MockAggregator{}
}

func (m *MockAggregator) CreateTournament(name string, startDate, endDate int64) (string, error) {
	if m.CreateTournamentFunc != nil {
		return m.CreateTournamentFunc(name, startDate, endDate)
	}
	return "mock-tournament", nil
}

func (m *MockAggregator) GetTournament(tournamentID string) (*Tournament, error) {
	if m.GetTournamentFunc != nil {
		return m.GetTournamentFunc(tournamentID)
	}
	return &Tournament{ID: tournamentID}, nil
}

func (m *MockAggregator) GetAllTournaments() ([]Tournament, error) {
	if m.GetAllTournamentsFunc != nil {
		return m.GetAllTournamentsFunc()
	}
	return nil, nil
}

func (m *MockAggregator) AddRoundToTournament(tournamentID, roundID string) error {
	m.mu.Lock()
	m.AddRoundCalls = append(m.AddRoundCalls, struct {
		TournamentID string
		RoundID      string
	}{tournamentID, roundID})
	m.mu.Unlock()
	if m.AddRoundToTournamentFunc != nil {
		return m.AddRoundToTournamentFunc(tournamentID, roundID)
	}
	return nil
}

func (m *MockAggregator) ReevaluateRoundTx(tx *sql.Tx, roundID string) error {
	m.mu.Lock()
	m.ReevaluateCalls = append(m.ReevaluateCalls, roundID)
	m.mu.Unlock()
	if m.ReevaluateRoundTxFunc != nil {
		return m.ReevaluateRoundTxFunc(tx, roundID)
	}
	return nil
}

func (m *MockAggregator) Results(tournamentID string) ([]Result, error) {
	if m.ResultsFunc != nil {
		return m.ResultsFunc(tournamentID)
	}
	return nil, nil
}

func (m *MockAggregator) RoundBreakdown(tournamentID string) ([]TournamentRound, error) {
	if m.RoundBreakdownFunc != nil {
		return m.RoundBreakdownFunc(tournamentID)
	}
	return nil, nil
}
