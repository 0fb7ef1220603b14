package players

// Store defines the interface for the player registry.
type Store interface {
	UpsertPlayer(player PlayerInfo) error
	GetPlayer(playerID string) (*PlayerInfo, error)
	GetAllPlayers() ([]PlayerInfo, error)
	IsKnownPlayer(playerID string) bool
	SetWHSIndex(playerID string, whs float64) error
}
