package notifier

import "github.com/birdiebook/birdiebook/internal/tournament"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For fully scored rounds
	SendResultNotification(result *RoundResult, dryRun bool) error

	// For slash commands and scheduled postings
	SendLeaderboard(tournamentName string, results []tournament.Result, dryRun bool) error
	SendTournamentNotFound(query string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(tournamentName string, results []tournament.Result) (any, error)
	FormatTournamentNotFoundResponse(query string) (any, error)
}

// RoundResult is the outward-facing summary of one consolidated round,
// assembled by the caller from the round, course and handicap data.
type RoundResult struct {
	CourseName string
	RoundDate  int64
	Players    []PlayerScore
}

// PlayerScore is one player's scored line on a result notification.
type PlayerScore struct {
	Name           string
	CourseHandicap int
	GrossStrokes   int
	NetStrokes     int
	StablefordNet  int
}
