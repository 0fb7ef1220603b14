package players

import "sync"

// MockStore is a mock implementation of the player Store for testing.
type MockStore struct {
	mu sync.Mutex

	UpsertPlayerFunc  func(player PlayerInfo) error
	GetPlayerFunc     func(playerID string) (*PlayerInfo, error)
	GetAllPlayersFunc func() ([]PlayerInfo, error)
	IsKnownPlayerFunc func(playerID string) bool
	SetWHSIndexFunc   func(playerID string, whs float64) error

	UpsertPlayerCalls []PlayerInfo
}

func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertPlayer(player PlayerInfo) error {
	m.mu.Lock()
	m.UpsertPlayerCalls = append(m.UpsertPlayerCalls, player)
	m.mu.Unlock()
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(player)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*PlayerInfo, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return &PlayerInfo{ID: playerID}, nil
}

func (m *MockStore) GetAllPlayers() ([]PlayerInfo, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return true
}

func (m *MockStore) SetWHSIndex(playerID string, whs float64) error {
	if m.SetWHSIndexFunc != nil {
		return m.SetWHSIndexFunc(playerID, whs)
	}
	return nil
}
