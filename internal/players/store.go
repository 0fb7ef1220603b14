package players

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new player Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) UpsertPlayer(player PlayerInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO players (id, name, whs_index, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			whs_index = excluded.whs_index;
	`, player.ID, player.Name, player.WHSIndex, time.Now().Unix())
	if err != nil {
		log.Error("Failed to upsert player", "error", err, "playerID", player.ID)
		return err
	}
	log.Debug("Upserted player", "playerID", player.ID, "name", player.Name, "whs", player.WHSIndex)
	return nil
}

func (s *store) GetPlayer(playerID string) (*PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p PlayerInfo
	err := s.db.QueryRow("SELECT id, name, whs_index FROM players WHERE id = ?", playerID).
		Scan(&p.ID, &p.Name, &p.WHSIndex)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("player %s not found", playerID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &p, nil
}

func (s *store) GetAllPlayers() ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, whs_index FROM players ORDER BY name")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []PlayerInfo
	for rows.Next() {
		var p PlayerInfo
		if err := rows.Scan(&p.ID, &p.Name, &p.WHSIndex); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

// SetWHSIndex updates a player's current handicap index. Snapshots already
// written to player_rounds are left alone.
func (s *store) SetWHSIndex(playerID string, whs float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE players SET whs_index = ? WHERE id = ?", whs, playerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("player %s not found", playerID)
	}
	log.Info("Updated player handicap index", "playerID", playerID, "whs", whs)
	return nil
}
