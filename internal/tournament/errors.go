package tournament

import "errors"

var (
	// ErrTooFewHoles is returned when a participant has fewer than 18
	// positive-stroke holes at aggregation time. Partial rounds are never
	// counted.
	ErrTooFewHoles = errors.New("participant has fewer than 18 scored holes")

	// ErrRoundAlreadyAdded is returned when an explicit add is requested for
	// a round already linked to a tournament.
	ErrRoundAlreadyAdded = errors.New("round is already linked to a tournament")

	// ErrMissingPlayerRound means a participant has no handicap/tee snapshot
	// for the round. That is an upstream invariant violation, not a user
	// error; the transaction aborts loudly instead of skipping.
	ErrMissingPlayerRound = errors.New("player round snapshot missing at aggregation time")

	// ErrTournamentNotFound is returned when the referenced tournament does not exist.
	ErrTournamentNotFound = errors.New("tournament not found")

	// ErrRoundNotFound is returned when the referenced round does not exist.
	ErrRoundNotFound = errors.New("round not found")
)
