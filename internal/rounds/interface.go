package rounds

import "database/sql"

// Consolidator merges individually submitted scorecards into canonical
// rounds and keeps the per-(player, round) snapshots in step.
type Consolidator interface {
	// Submit merges one player's scorecard set into the canonical round for
	// its (course, date) key, creating the round if none exists. Returns the
	// canonical round id. Fails with ErrTooManyPlayers or
	// ErrDuplicateSubmission; nothing is persisted on failure.
	Submit(sub Submission) (string, error)

	// Edit replaces one player's scorecard set wholesale without touching
	// other players' entries. Triggers re-evaluation when the round is
	// tournament-linked.
	Edit(roundID, playerID string, cards []ScoreCard) error

	// Remove deletes one player's scorecards and snapshot. Deleting the last
	// player deletes the round itself.
	Remove(roundID, playerID string) error

	GetRound(roundID string) (*Round, error)
	GetAllRounds() ([]Round, error)
	GetPlayerRound(roundID, playerID string) (*PlayerRound, error)

	// ClearRound wipes one round and everything hanging off it; Clear wipes
	// all round data. Development and operations endpoints only.
	ClearRound(roundID string) error
	Clear() error
}

// Reevaluator is invoked synchronously, inside the submitting transaction,
// when an already-tournament-linked round is mutated. The aggregator's
// per-(player, round) guard is the sole double-counting protection; this is
// an ordinary call so the guard-check ordering stays visible in the call
// graph.
type Reevaluator interface {
	ReevaluateRoundTx(tx *sql.Tx, roundID string) error
}
