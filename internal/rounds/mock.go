package rounds

import "sync"

// MockConsolidator is a mock implementation of the Consolidator interface
// for testing. It is safe for concurrent use.
type MockConsolidator struct {
	mu sync.Mutex

	// Spies for method calls
	SubmitFunc         func(sub Submission) (string, error)
	EditFunc           func(roundID, playerID string, cards []ScoreCard) error
	RemoveFunc         func(roundID, playerID string) error
	GetRoundFunc       func(roundID string) (*Round, error)
	GetAllRoundsFunc   func() ([]Round, error)
	GetPlayerRoundFunc func(roundID, playerID string) (*PlayerRound, error)
	ClearRoundFunc     func(roundID string) error
	ClearFunc          func() error

	// Call records
	SubmitCalls []Submission
	EditCalls   []struct {
		RoundID  string
		PlayerID string
		Cards    []ScoreCard
	}
	RemoveCalls []struct {
		RoundID  string
		PlayerID string
	}
}

var _ Consolidator = (*MockConsolidator)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockConsolidator {
	return &MockConsolidator{}
}

func (m *MockConsolidator) Submit(sub Submission) (string, error) {
	m.mu.Lock()
	m.SubmitCalls = append(m.SubmitCalls, sub)
	m.mu.Unlock()
	if m.SubmitFunc != nil {
		return m.SubmitFunc(sub)
	}
	return "mock-round", nil
}

func (m *MockConsolidator) Edit(roundID, playerID string, cards []ScoreCard) error {
	m.mu.Lock()
	m.EditCalls = append(m.EditCalls, struct {
		RoundID  string
		PlayerID string
		Cards    []ScoreCard
	}{roundID, playerID, cards})
	m.mu.Unlock()
	if m.EditFunc != nil {
		return m.EditFunc(roundID, playerID, cards)
	}
	return nil
}

func (m *MockConsolidator) Remove(roundID, playerID string) error {
	m.mu.Lock()
	m.RemoveCalls = append(m.RemoveCalls, struct {
		RoundID  string
		PlayerID string
	}{roundID, playerID})
	m.mu.Unlock()
	if m.RemoveFunc != nil {
		return m.RemoveFunc(roundID, playerID)
	}
	return nil
}

func (m *MockConsolidator) GetRound(roundID string) (*Round, error) {
	if m.GetRoundFunc != nil {
		return m.GetRoundFunc(roundID)
	}
	return &Round{ID: roundID}, nil
}

func (m *MockConsolidator) GetAllRounds() ([]Round, error) {
	if m.GetAllRoundsFunc != nil {
		return m.GetAllRoundsFunc()
	}
	return nil, nil
}

func (m *MockConsolidator) GetPlayerRound(roundID, playerID string) (*PlayerRound, error) {
	if m.GetPlayerRoundFunc != nil {
		return m.GetPlayerRoundFunc(roundID, playerID)
	}
	return &PlayerRound{RoundID: roundID, PlayerID: playerID}, nil
}

func (m *MockConsolidator) ClearRound(roundID string) error {
	if m.ClearRoundFunc != nil {
		return m.ClearRoundFunc(roundID)
	}
	return nil
}

func (m *MockConsolidator) Clear() error {
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	return nil
}
