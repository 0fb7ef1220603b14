package http

import (
	"net/http"

	"github.com/birdiebook/birdiebook/internal/config"
	"github.com/birdiebook/birdiebook/internal/course"
	"github.com/birdiebook/birdiebook/internal/metrics"
	"github.com/birdiebook/birdiebook/internal/notifier"
	"github.com/birdiebook/birdiebook/internal/players"
	"github.com/birdiebook/birdiebook/internal/pubsub"
	"github.com/birdiebook/birdiebook/internal/rounds"
	"github.com/birdiebook/birdiebook/internal/tournament"
)

type Server struct {
	Rounds         rounds.Consolidator
	Tournaments    tournament.Aggregator
	Courses        course.Store
	Players        players.Store
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
