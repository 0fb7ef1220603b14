package players

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the player registry.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// PlayerInfo represents a registered club player. WHSIndex is the player's
// current handicap index; rounds snapshot it at submission time.
type PlayerInfo struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	WHSIndex float64 `json:"whs_index"`
}
