package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/birdiebook/birdiebook/internal/config"
	"github.com/birdiebook/birdiebook/internal/course"
	"github.com/birdiebook/birdiebook/internal/database"
	"github.com/birdiebook/birdiebook/internal/metrics"
	"github.com/birdiebook/birdiebook/internal/notifier"
	"github.com/birdiebook/birdiebook/internal/players"
	"github.com/birdiebook/birdiebook/internal/pubsub"
	"github.com/birdiebook/birdiebook/internal/rounds"
	"github.com/birdiebook/birdiebook/internal/tournament"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, notif notifier.Notifier) (*Server, *pubsub.MockPubSubClient, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	courses := course.New(db)
	holes := make([]course.Hole, 18)
	for i := range holes {
		par := 4
		switch i % 6 {
		case 1:
			par = 5
		case 2:
			par = 3
		}
		holes[i] = course.Hole{Number: i + 1, Par: par, StrokeIndex: ((i * 7) % 18) + 1}
	}
	tees := []course.Tee{{ID: "t1", CourseID: "c1", Name: "Yellow", CourseRating: 70.3, SlopeRating: 135, TeeType: course.TeeTypeFull18}}
	require.NoError(t, courses.UpsertCourse(course.Course{ID: "c1", Name: "Oakridge"}, holes, tees))

	reg := players.New(db)
	require.NoError(t, reg.UpsertPlayer(players.PlayerInfo{ID: "p1", Name: "Anna Madsen", WHSIndex: 10.0}))
	require.NoError(t, reg.UpsertPlayer(players.PlayerInfo{ID: "p2", Name: "Bo Holm", WHSIndex: 18.4}))

	promReg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(promReg)
	metricsHandler := metrics.NewMetricsHandler(promReg)
	ps := pubsub.NewMock()
	agg := tournament.NewAggregator(db, metricsSvc)
	cons := rounds.New(db, courses, agg, metricsSvc)
	server := NewServer(cons, agg, courses, reg, metricsSvc, metricsHandler, config.Config{}, notif, ps)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
	}
	return server, ps, teardown
}

func submitBody(playerID string, date int64, strokes int) *bytes.Buffer {
	cards := make([]rounds.ScoreCard, 18)
	for i := range cards {
		cards[i] = rounds.ScoreCard{HoleNumber: i + 1, Strokes: strokes, Putts: 2}
	}
	body, _ := json.Marshal(rounds.Submission{
		CourseID:   "c1",
		RoundDate:  date,
		PlayerID:   playerID,
		TeeID:      "t1",
		Scorecards: cards,
	})
	return bytes.NewBuffer(body)
}

func submitRound(t *testing.T, server *Server, playerID string, date int64, strokes int) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/rounds", submitBody(playerID, date, strokes))
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["round_id"])
	return resp["round_id"]
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestSubmitRound_PublishesResultEvent(t *testing.T) {
	server, ps, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	submitRound(t, server, "p1", time.Now().Unix(), 5)

	require.Len(t, ps.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventNotifyResult), ps.SendMessageCalls[0].Topic)
}

func TestSubmitRound_DryRunSkipsPublish(t *testing.T) {
	server, ps, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	req := httptest.NewRequest("POST", "/rounds?dry_run=true", submitBody("p1", time.Now().Unix(), 5))
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	assert.Empty(t, ps.SendMessageCalls)
}

func TestSubmitRound_DuplicateConflict(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	date := time.Now().Unix()
	submitRound(t, server, "p1", date, 5)

	req := httptest.NewRequest("POST", "/rounds", submitBody("p1", date, 5))
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestGetRounds(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	date := time.Now().Unix()
	roundID := submitRound(t, server, "p1", date, 5)
	submitRound(t, server, "p2", date, 6)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/rounds", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var list []rounds.Round
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/rounds?roundID="+roundID, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var round rounds.Round
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &round))
	assert.ElementsMatch(t, []string{"p1", "p2"}, round.Players)

	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/rounds?roundID=nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEditRound(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	roundID := submitRound(t, server, "p1", time.Now().Unix(), 5)

	cards := make([]rounds.ScoreCard, 18)
	for i := range cards {
		cards[i] = rounds.ScoreCard{HoleNumber: i + 1, Strokes: 4, Putts: 2}
	}
	body, _ := json.Marshal(editRoundRequest{RoundID: roundID, PlayerID: "p1", Scorecards: cards})
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/rounds/edit", bytes.NewBuffer(body)))
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body, _ = json.Marshal(editRoundRequest{RoundID: "nope", PlayerID: "p1", Scorecards: cards})
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/rounds/edit", bytes.NewBuffer(body)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAddRoundToTournament(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	roundID := submitRound(t, server, "p1", time.Now().Unix(), 5)

	body, _ := json.Marshal(createTournamentRequest{Name: "Club Championship", StartDate: time.Now().Unix(), EndDate: time.Now().Unix() + 1000})
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/tournaments", bytes.NewBuffer(body)))
	require.Equal(t, http.StatusCreated, rr.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	tid := created["tournament_id"]

	addBody, _ := json.Marshal(addRoundRequest{TournamentID: tid, RoundID: roundID})
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/tournaments/add-round", bytes.NewBuffer(addBody)))
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Same round again conflicts.
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/tournaments/add-round", bytes.NewBuffer(addBody)))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/tournaments/results?tournamentID="+tid, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var results []tournament.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, 90, results[0].GrossStrokes)
	assert.Equal(t, 80, results[0].NetStrokes)
}

func TestAddRoundToTournament_IncompleteRound(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	// Hole 18 left unscored.
	cards := make([]rounds.ScoreCard, 18)
	for i := range cards {
		cards[i] = rounds.ScoreCard{HoleNumber: i + 1, Strokes: 5}
	}
	cards[17].Strokes = 0
	body, _ := json.Marshal(rounds.Submission{CourseID: "c1", RoundDate: time.Now().Unix(), PlayerID: "p1", TeeID: "t1", Scorecards: cards})
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/rounds", bytes.NewBuffer(body)))
	require.Equal(t, http.StatusCreated, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	tb, _ := json.Marshal(createTournamentRequest{Name: "Club Championship"})
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/tournaments", bytes.NewBuffer(tb)))
	require.Equal(t, http.StatusCreated, rr.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	addBody, _ := json.Marshal(addRoundRequest{TournamentID: created["tournament_id"], RoundID: resp["round_id"]})
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/tournaments/add-round", bytes.NewBuffer(addBody)))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestTournamentResults_UnknownTournament(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/tournaments/results?tournamentID=nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/tournaments/results", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotifyResultHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	roundID := submitRound(t, server, "p1", time.Now().Unix(), 5)

	payload, err := msgpack.Marshal(pubsub.ResultEvent{RoundID: roundID})
	require.NoError(t, err)
	wrapper := fmt.Sprintf(`{"subscription":"sub","message":{"data":"%s"}}`, base64.StdEncoding.EncodeToString(payload))

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/notify-result", strings.NewReader(wrapper)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, notif.SendResultNotificationCalls, 1)
	result := notif.SendResultNotificationCalls[0].Result
	assert.Equal(t, "Oakridge", result.CourseName)
	require.Len(t, result.Players, 1)
	assert.Equal(t, "Anna Madsen", result.Players[0].Name)
	assert.Equal(t, 10, result.Players[0].CourseHandicap)
	assert.Equal(t, 90, result.Players[0].GrossStrokes)
	assert.Equal(t, 80, result.Players[0].NetStrokes)
}

func TestNotifyLeaderboardHandler(t *testing.T) {
	notif := notifier.NewMock()
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	roundID := submitRound(t, server, "p1", time.Now().Unix(), 5)

	body, _ := json.Marshal(createTournamentRequest{Name: "Club Championship"})
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/tournaments", bytes.NewBuffer(body)))
	require.Equal(t, http.StatusCreated, rr.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	tid := created["tournament_id"]

	addBody, _ := json.Marshal(addRoundRequest{TournamentID: tid, RoundID: roundID})
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/tournaments/add-round", bytes.NewBuffer(addBody)))
	require.Equal(t, http.StatusOK, rr.Code)

	payload, err := msgpack.Marshal(pubsub.LeaderboardEvent{TournamentID: tid})
	require.NoError(t, err)
	wrapper := fmt.Sprintf(`{"subscription":"sub","message":{"data":"%s"}}`, base64.StdEncoding.EncodeToString(payload))

	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/notify-leaderboard", strings.NewReader(wrapper)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.Len(t, notif.SendLeaderboardCalls, 1)
	call := notif.SendLeaderboardCalls[0]
	assert.Equal(t, "Club Championship", call.TournamentName)
	require.Len(t, call.Results, 1)
	assert.Equal(t, 1, call.Results[0].PlayedRounds)
}

func TestNotifyResultHandler_BadWrapper(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/notify-result", strings.NewReader("not-json")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/notify-result", strings.NewReader(`{"message":{"data":"!!!"}}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLeaderboardCommandHandler(t *testing.T) {
	notif := notifier.NewMock()
	notif.FormatLeaderboardResponseFunc = func(tournamentName string, results []tournament.Result) (any, error) {
		return slack.NewBlockMessage(
			slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", tournamentName, true, false)),
		), nil
	}
	server, _, teardown := setupTestServer(t, notif)
	defer teardown()

	body, _ := json.Marshal(createTournamentRequest{Name: "Club Championship"})
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("POST", "/tournaments", bytes.NewBuffer(body)))
	require.Equal(t, http.StatusCreated, rr.Code)

	form := url.Values{"text": {"Club Championship"}}
	req := httptest.NewRequest("POST", "/slack/command/leaderboard", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotNil(t, notif.LastLeaderboardResponse)
}

func TestClearStoreHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, notifier.NewMock())
	defer teardown()

	roundID := submitRound(t, server, "p1", time.Now().Unix(), 5)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/clear?roundID="+roundID, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest("GET", "/rounds?roundID="+roundID, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
