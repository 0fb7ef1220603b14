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

func NewServer(consolidator rounds.Consolidator, aggregator tournament.Aggregator, courses course.Store, registry players.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Rounds:         consolidator,
		Tournaments:    aggregator,
		Courses:        courses,
		Players:        registry,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/courses", Chain(s.ListCoursesHandler(), paramsMiddleware))
	s.Router.Handle("/rounds", Chain(s.RoundsHandler(), paramsMiddleware))
	s.Router.Handle("/rounds/edit", Chain(s.EditRoundHandler(), paramsMiddleware))
	s.Router.Handle("/rounds/remove", Chain(s.RemoveFromRoundHandler(), paramsMiddleware))
	s.Router.Handle("/tournaments", Chain(s.TournamentsHandler(), paramsMiddleware))
	s.Router.Handle("/tournaments/add-round", Chain(s.AddRoundToTournamentHandler(), paramsMiddleware))
	s.Router.Handle("/tournaments/results", Chain(s.TournamentResultsHandler(), paramsMiddleware))
	s.Router.Handle("/tournaments/rounds", Chain(s.TournamentRoundsHandler(), paramsMiddleware))
	s.Router.Handle("/notify-result", Chain(s.NotifyResultHandler(), paramsMiddleware))
	s.Router.Handle("/notify-leaderboard", Chain(s.NotifyLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
