package tournament

import "database/sql"

// Aggregator folds fully-played rounds into per-player tournament totals and
// serves the resulting standings.
type Aggregator interface {
	CreateTournament(name string, startDate, endDate int64) (string, error)
	GetTournament(tournamentID string) (*Tournament, error)
	GetAllTournaments() ([]Tournament, error)

	// AddRoundToTournament links a round to a tournament and aggregates every
	// participant. Fails with ErrRoundAlreadyAdded or ErrTooFewHoles; nothing
	// is persisted on failure.
	AddRoundToTournament(tournamentID, roundID string) error

	// ReevaluateRoundTx re-runs aggregation for an already-linked round inside
	// the caller's transaction. The per-(player, round) guard skips players
	// that were counted before, so only net-new participants are folded in.
	// Cumulative totals of already-counted participants are deliberately not
	// corrected retroactively.
	ReevaluateRoundTx(tx *sql.Tx, roundID string) error

	// Results returns the standings ordered by played rounds, then Stableford
	// net, both descending.
	Results(tournamentID string) ([]Result, error)

	// RoundBreakdown returns the immutable per-round audit records for one
	// tournament, newest first.
	RoundBreakdown(tournamentID string) ([]TournamentRound, error)
}
