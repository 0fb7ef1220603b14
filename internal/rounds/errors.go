package rounds

import "errors"

// Business-rule failures. All abort the enclosing transaction and are never
// retried; they are caller violations, not infrastructure faults.
var (
	// ErrTooManyPlayers is returned when a merge would exceed four participants.
	ErrTooManyPlayers = errors.New("round already has the maximum of four players")

	// ErrDuplicateSubmission is returned when a player already has a scorecard
	// for this physical round.
	ErrDuplicateSubmission = errors.New("player already submitted a scorecard for this round")

	// ErrRoundNotFound is returned when the referenced round does not exist.
	ErrRoundNotFound = errors.New("round not found")

	// ErrNotParticipant is returned when editing or removing a scorecard for a
	// player who is not part of the round.
	ErrNotParticipant = errors.New("player has no scorecard in this round")

	// ErrUnknownPlayer is returned when the submitting player is not registered.
	ErrUnknownPlayer = errors.New("player is not registered")

	// ErrInvalidScorecard is returned for duplicate or out-of-range hole numbers.
	ErrInvalidScorecard = errors.New("invalid scorecard")
)
