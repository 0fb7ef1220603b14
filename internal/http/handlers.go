package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/birdiebook/birdiebook/internal/handicap"
	"github.com/birdiebook/birdiebook/internal/notifier"
	"github.com/birdiebook/birdiebook/internal/pubsub"
	"github.com/birdiebook/birdiebook/internal/rounds"
	"github.com/birdiebook/birdiebook/internal/tournament"
	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// writeBusinessError maps domain sentinel errors onto HTTP status codes.
// Anything unmapped is an internal error.
func writeBusinessError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, rounds.ErrTooManyPlayers),
		errors.Is(err, rounds.ErrDuplicateSubmission),
		errors.Is(err, tournament.ErrRoundAlreadyAdded):
		status = http.StatusConflict
	case errors.Is(err, tournament.ErrTooFewHoles):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, rounds.ErrInvalidScorecard),
		errors.Is(err, rounds.ErrUnknownPlayer):
		status = http.StatusBadRequest
	case errors.Is(err, rounds.ErrRoundNotFound),
		errors.Is(err, rounds.ErrNotParticipant),
		errors.Is(err, tournament.ErrRoundNotFound),
		errors.Is(err, tournament.ErrTournamentNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roundID := r.URL.Query().Get("roundID")
		if roundID != "" {
			log.Info("Received request to clear a specific round", "roundID", roundID)
			if err := s.Rounds.ClearRound(roundID); err != nil {
				writeBusinessError(w, err)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared round %s from store!", roundID)
		} else {
			log.Info("Received request to clear all round data")
			if err := s.Rounds.Clear(); err != nil {
				writeBusinessError(w, err)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
		}
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Players.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from registry", "error", err)
			return
		}
		writeJSON(w, players)
	}
}

func (s *Server) ListCoursesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, err := s.Courses.GetAllCourses()
		if err != nil {
			http.Error(w, "Failed to get courses", http.StatusInternalServerError)
			log.Error("Failed to get courses from catalog", "error", err)
			return
		}
		writeJSON(w, courses)
	}
}

// RoundsHandler serves round lookups on GET and scorecard submissions on POST.
func (s *Server) RoundsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if roundID := r.URL.Query().Get("roundID"); roundID != "" {
				round, err := s.Rounds.GetRound(roundID)
				if err != nil {
					writeBusinessError(w, err)
					return
				}
				writeJSON(w, round)
				return
			}
			allRounds, err := s.Rounds.GetAllRounds()
			if err != nil {
				http.Error(w, "Failed to get rounds", http.StatusInternalServerError)
				log.Error("Failed to get rounds", "error", err)
				return
			}
			writeJSON(w, allRounds)
		case http.MethodPost:
			var sub rounds.Submission
			if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			roundID, err := s.Rounds.Submit(sub)
			if err != nil {
				log.Error("Failed to submit scorecards", "playerID", sub.PlayerID, "error", err)
				writeBusinessError(w, err)
				return
			}
			s.publishResultEvent(roundID, isDryRunFromContext(r))
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, map[string]string{"round_id": roundID})
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

type editRoundRequest struct {
	RoundID    string             `json:"round_id"`
	PlayerID   string             `json:"player_id"`
	Scorecards []rounds.ScoreCard `json:"scorecards"`
}

func (s *Server) EditRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editRoundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := s.Rounds.Edit(req.RoundID, req.PlayerID, req.Scorecards); err != nil {
			log.Error("Failed to edit scorecards", "roundID", req.RoundID, "playerID", req.PlayerID, "error", err)
			writeBusinessError(w, err)
			return
		}
		s.publishResultEvent(req.RoundID, isDryRunFromContext(r))
		w.Write([]byte("OK"))
	}
}

type removeFromRoundRequest struct {
	RoundID  string `json:"round_id"`
	PlayerID string `json:"player_id"`
}

func (s *Server) RemoveFromRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req removeFromRoundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := s.Rounds.Remove(req.RoundID, req.PlayerID); err != nil {
			log.Error("Failed to remove player from round", "roundID", req.RoundID, "playerID", req.PlayerID, "error", err)
			writeBusinessError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

// publishResultEvent emits the informational post-commit event for a mutated
// round. Publish failures are logged, never surfaced: the event is not part
// of the round's correctness.
func (s *Server) publishResultEvent(roundID string, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would publish result event", "roundID", roundID)
		return
	}
	if err := s.pubsub.SendMessage(string(pubsub.EventNotifyResult), pubsub.ResultEvent{RoundID: roundID}); err != nil {
		log.Error("Failed to publish result event", "roundID", roundID, "error", err)
	}
}

type createTournamentRequest struct {
	Name      string `json:"name"`
	StartDate int64  `json:"start_date"`
	EndDate   int64  `json:"end_date"`
}

// TournamentsHandler serves tournament listings on GET and creation on POST.
func (s *Server) TournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			tournaments, err := s.Tournaments.GetAllTournaments()
			if err != nil {
				http.Error(w, "Failed to get tournaments", http.StatusInternalServerError)
				log.Error("Failed to get tournaments", "error", err)
				return
			}
			writeJSON(w, tournaments)
		case http.MethodPost:
			var req createTournamentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			if req.Name == "" {
				http.Error(w, "Tournament name is required", http.StatusBadRequest)
				return
			}
			id, err := s.Tournaments.CreateTournament(req.Name, req.StartDate, req.EndDate)
			if err != nil {
				log.Error("Failed to create tournament", "name", req.Name, "error", err)
				writeBusinessError(w, err)
				return
			}
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, map[string]string{"tournament_id": id})
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

type addRoundRequest struct {
	TournamentID string `json:"tournament_id"`
	RoundID      string `json:"round_id"`
}

func (s *Server) AddRoundToTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addRoundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := s.Tournaments.AddRoundToTournament(req.TournamentID, req.RoundID); err != nil {
			log.Error("Failed to add round to tournament", "tournamentID", req.TournamentID, "roundID", req.RoundID, "error", err)
			writeBusinessError(w, err)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) TournamentResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournamentID := r.URL.Query().Get("tournamentID")
		if tournamentID == "" {
			http.Error(w, "tournamentID is required", http.StatusBadRequest)
			return
		}
		if _, err := s.Tournaments.GetTournament(tournamentID); err != nil {
			writeBusinessError(w, err)
			return
		}
		results, err := s.Tournaments.Results(tournamentID)
		if err != nil {
			http.Error(w, "Failed to get results", http.StatusInternalServerError)
			log.Error("Failed to get tournament results", "tournamentID", tournamentID, "error", err)
			return
		}
		writeJSON(w, results)
	}
}

func (s *Server) TournamentRoundsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournamentID := r.URL.Query().Get("tournamentID")
		if tournamentID == "" {
			http.Error(w, "tournamentID is required", http.StatusBadRequest)
			return
		}
		records, err := s.Tournaments.RoundBreakdown(tournamentID)
		if err != nil {
			http.Error(w, "Failed to get round breakdown", http.StatusInternalServerError)
			log.Error("Failed to get round breakdown", "tournamentID", tournamentID, "error", err)
			return
		}
		writeJSON(w, records)
	}
}

// NotifyResultHandler is the pub/sub push endpoint relaying a scored round to
// the notification channel. The push body is a JSON wrapper around a
// base64-encoded MessagePack payload.
func (s *Server) NotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received notify result message", "body", string(bodyBytes))
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		event := pubsub.ResultEvent{}
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		result, err := s.buildRoundResult(event.RoundID)
		if err != nil {
			log.Error("Failed to build round result", "roundID", event.RoundID, "error", err)
			writeBusinessError(w, err)
			return
		}
		if err := s.Notifier.SendResultNotification(result, isDryRun); err != nil {
			log.Error("Failed to notify result", "roundID", event.RoundID, "error", err)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// buildRoundResult scores a round for presentation: course handicap, gross,
// net and Stableford per participant. Presentation-only, nothing persisted.
func (s *Server) buildRoundResult(roundID string) (*notifier.RoundResult, error) {
	round, err := s.Rounds.GetRound(roundID)
	if err != nil {
		return nil, err
	}
	crs, err := s.Courses.GetCourse(round.CourseID)
	if err != nil {
		return nil, err
	}
	courseHoles, err := s.Courses.GetHoles(round.CourseID)
	if err != nil {
		return nil, err
	}

	holes := make([]handicap.Hole, len(courseHoles))
	par := 0
	for i, h := range courseHoles {
		holes[i] = handicap.Hole{Number: h.Number, Par: h.Par, StrokeIndex: h.StrokeIndex}
		par += h.Par
	}

	strokesByPlayer := make(map[string]map[int]int)
	for _, card := range round.Scorecards {
		if strokesByPlayer[card.PlayerID] == nil {
			strokesByPlayer[card.PlayerID] = make(map[int]int)
		}
		strokesByPlayer[card.PlayerID][card.HoleNumber] = card.Strokes
	}

	result := &notifier.RoundResult{
		CourseName: crs.Name,
		RoundDate:  round.RoundDate,
	}
	for _, playerID := range round.Players {
		pr, err := s.Rounds.GetPlayerRound(roundID, playerID)
		if err != nil {
			return nil, err
		}
		info, err := s.Players.GetPlayer(playerID)
		if err != nil {
			return nil, err
		}

		ch := handicap.CourseHandicap(pr.WHSIndex, pr.SlopeRating, pr.CourseRating, par)
		alloc := handicap.StrokeAllocation(ch, holes)
		gross := 0
		stbNet := 0
		for _, h := range holes {
			stroke := strokesByPlayer[playerID][h.Number]
			gross += stroke
			stbNet += handicap.StablefordNet(h.Par, stroke, alloc[h.Number])
		}

		result.Players = append(result.Players, notifier.PlayerScore{
			Name:           info.Name,
			CourseHandicap: ch,
			GrossStrokes:   gross,
			NetStrokes:     handicap.NetStrokes(gross, ch),
			StablefordNet:  stbNet,
		})
	}
	return result, nil
}

// NotifyLeaderboardHandler is the pub/sub push endpoint posting a
// tournament's standings to the notification channel.
func (s *Server) NotifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received notify leaderboard message", "body", string(bodyBytes))
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		event := pubsub.LeaderboardEvent{}
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		tmt, err := s.Tournaments.GetTournament(event.TournamentID)
		if err != nil {
			writeBusinessError(w, err)
			return
		}
		results, err := s.Tournaments.Results(tmt.ID)
		if err != nil {
			log.Error("Failed to get tournament results", "tournamentID", tmt.ID, "error", err)
			http.Error(w, "Failed to get results", http.StatusInternalServerError)
			return
		}
		if err := s.Notifier.SendLeaderboard(tmt.Name, results, isDryRun); err != nil {
			log.Error("Failed to notify leaderboard", "tournamentID", tmt.ID, "error", err)
			http.Error(w, "Failed to notify leaderboard", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
// The command text selects a tournament by name; empty text picks the most
// recently started one.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		query := strings.TrimSpace(r.FormValue("text"))

		tournaments, err := s.Tournaments.GetAllTournaments()
		if err != nil {
			http.Error(w, "Failed to get tournaments", http.StatusInternalServerError)
			log.Error("Failed to get tournaments", "error", err)
			return
		}

		var selected *tournament.Tournament
		for i := range tournaments {
			if query == "" || strings.EqualFold(tournaments[i].Name, query) {
				selected = &tournaments[i]
				break
			}
		}

		var msg any
		if selected == nil {
			log.Warn("Could not find tournament", "query", query)
			msg, err = s.Notifier.FormatTournamentNotFoundResponse(query)
		} else {
			var results []tournament.Result
			results, err = s.Tournaments.Results(selected.ID)
			if err != nil {
				http.Error(w, "Failed to get results", http.StatusInternalServerError)
				log.Error("Failed to get tournament results", "tournamentID", selected.ID, "error", err)
				return
			}
			msg, err = s.Notifier.FormatLeaderboardResponse(selected.Name, results)
		}

		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}
