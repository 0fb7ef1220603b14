package tournament

import (
	"database/sql"
	"sync"

	"github.com/birdiebook/birdiebook/internal/metrics"
)

// aggregator folds qualifying rounds into per-player tournament totals.
type aggregator struct {
	db      *sql.DB
	metrics metrics.Metrics
	mu      sync.RWMutex
}

// Tournament is a competition window. Any round whose date falls inside the
// window is a candidate; results exist only for explicitly added rounds.
type Tournament struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate int64  `json:"start_date"`
	EndDate   int64  `json:"end_date"`
}

// Result is the running per-(tournament, player) projection. Created lazily
// on the first qualifying round and mutated additively afterwards.
type Result struct {
	TournamentID    string `json:"tournament_id"`
	PlayerID        string `json:"player_id"`
	PlayerName      string `json:"player_name"`
	PlayedRounds    int    `json:"played_rounds"`
	GrossStrokes    int    `json:"gross_strokes"`
	NetStrokes      int    `json:"net_strokes"`
	StablefordNet   int    `json:"stableford_net"`
	StablefordGross int    `json:"stableford_gross"`
}

// TournamentRound is the immutable per-round audit record underlying a
// player's cumulative Result. Never mutated after creation.
type TournamentRound struct {
	ID                string  `json:"id"`
	TournamentID      string  `json:"tournament_id"`
	PlayerID          string  `json:"player_id"`
	RoundID           string  `json:"round_id"`
	CourseName        string  `json:"course_name"`
	GrossStrokes      int     `json:"gross_strokes"`
	NetStrokes        int     `json:"net_strokes"`
	StablefordNet     int     `json:"stableford_net"`
	StablefordGross   int     `json:"stableford_gross"`
	ScoreDifferential float64 `json:"score_differential"`
}
