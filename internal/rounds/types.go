package rounds

import (
	"database/sql"
	"sync"

	"github.com/birdiebook/birdiebook/internal/course"
	"github.com/birdiebook/birdiebook/internal/metrics"
)

// consolidator merges per-player scorecard submissions into canonical rounds.
type consolidator struct {
	db      *sql.DB
	courses course.Store
	reeval  Reevaluator
	metrics metrics.Metrics
	mu      sync.RWMutex
}

// Round is a played round at a course on a date. At most one Round exists per
// (course, date) pair; a Round with zero players is deleted, never kept empty.
type Round struct {
	ID           string      `json:"id"`
	CourseID     string      `json:"course_id"`
	RoundDate    int64       `json:"round_date"`
	TournamentID string      `json:"tournament_id,omitempty"`
	Players      []string    `json:"players"`
	Scorecards   []ScoreCard `json:"scorecards,omitempty"`
}

// ScoreCard is one player's result on one hole. The Computed fields are
// filled during scoring passes and never persisted.
type ScoreCard struct {
	RoundID    string `json:"round_id,omitempty"`
	PlayerID   string `json:"player_id"`
	HoleNumber int    `json:"hole_number"`
	Strokes    int    `json:"strokes"`
	Putts      int    `json:"putts"`
	Penalties  int    `json:"penalties"`

	// Transient, computed per scoring pass.
	HcpStrokes      int `json:"hcp_strokes,omitempty"`
	StablefordNet   int `json:"stableford_net,omitempty"`
	StablefordGross int `json:"stableford_gross,omitempty"`
	CorrectedStroke int `json:"corrected_stroke,omitempty"`
}

// PlayerRound snapshots the handicap index and tee a player used for one
// round, written at round-save time and read at scoring time. TournamentID
// is set once the round has been counted for a tournament; it is the
// de-duplication guard preventing double aggregation.
type PlayerRound struct {
	RoundID      string         `json:"round_id"`
	PlayerID     string         `json:"player_id"`
	WHSIndex     float64        `json:"whs_index"`
	TeeID        string         `json:"tee_id"`
	CourseRating float64        `json:"course_rating"`
	SlopeRating  int            `json:"slope_rating"`
	TeeType      course.TeeType `json:"tee_type"`
	TournamentID string         `json:"tournament_id,omitempty"`
}

// Submission is one player's freshly submitted round: course + date key plus
// that player's full scorecard set and the tee they played.
type Submission struct {
	CourseID   string      `json:"course_id"`
	RoundDate  int64       `json:"round_date"`
	PlayerID   string      `json:"player_id"`
	TeeID      string      `json:"tee_id"`
	Scorecards []ScoreCard `json:"scorecards"`
}
