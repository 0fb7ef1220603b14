package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventNotifyResult      EventType = "notify-result"
	EventNotifyLeaderboard EventType = "notify-leaderboard"
)

// ResultEvent is the payload published when a fully consolidated round has
// been scored. Consumers look the round up themselves; the payload carries
// only identity.
type ResultEvent struct {
	RoundID string `msgpack:"round_id"`
}

// LeaderboardEvent requests an outward posting of a tournament's standings.
type LeaderboardEvent struct {
	TournamentID string `msgpack:"tournament_id"`
}
