package tournament_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/birdiebook/birdiebook/internal/course"
	"github.com/birdiebook/birdiebook/internal/database"
	"github.com/birdiebook/birdiebook/internal/metrics"
	"github.com/birdiebook/birdiebook/internal/players"
	"github.com/birdiebook/birdiebook/internal/rounds"
	"github.com/birdiebook/birdiebook/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db   *sql.DB
	agg  tournament.Aggregator
	cons rounds.Consolidator
	m    *metrics.MockMetrics
}

// setup wires a real consolidator on top of a real aggregator, so edits and
// merges exercise the same re-evaluation path production uses.
func setup(t *testing.T) (*fixture, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	courses := course.New(db)
	require.NoError(t, courses.UpsertCourse(testCourse()))

	reg := players.New(db)
	for _, p := range []players.PlayerInfo{
		{ID: "p1", Name: "Anna Madsen", WHSIndex: 10.0},
		{ID: "p2", Name: "Bo Holm", WHSIndex: 10.0},
		{ID: "p3", Name: "Carl Juhl", WHSIndex: 10.0},
	} {
		require.NoError(t, reg.UpsertPlayer(p))
	}

	m := metrics.NewMock()
	agg := tournament.NewAggregator(db, m)
	return &fixture{
		db:   db,
		agg:  agg,
		cons: rounds.New(db, courses, agg, m),
		m:    m,
	}, teardown
}

// testCourse is a par-72 course whose stroke indexes cycle so no two holes
// share one.
func testCourse() (course.Course, []course.Hole, []course.Tee) {
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
	tees := []course.Tee{
		{ID: "t1", CourseID: "c1", Name: "Yellow", CourseRating: 70.3, SlopeRating: 135, TeeType: course.TeeTypeFull18},
	}
	return course.Course{ID: "c1", Name: "Oakridge"}, holes, tees
}

func fullCards(strokes int) []rounds.ScoreCard {
	cards := make([]rounds.ScoreCard, 18)
	for i := range cards {
		cards[i] = rounds.ScoreCard{HoleNumber: i + 1, Strokes: strokes, Putts: 2}
	}
	return cards
}

func (f *fixture) submit(t *testing.T, playerID string, date int64, cards []rounds.ScoreCard) string {
	t.Helper()
	roundID, err := f.cons.Submit(rounds.Submission{
		CourseID:   "c1",
		RoundDate:  date,
		PlayerID:   playerID,
		TeeID:      "t1",
		Scorecards: cards,
	})
	require.NoError(t, err)
	return roundID
}

func (f *fixture) newTournament(t *testing.T, name string) string {
	t.Helper()
	id, err := f.agg.CreateTournament(name, time.Now().Unix(), time.Now().Add(90*24*time.Hour).Unix())
	require.NoError(t, err)
	return id
}

func TestAddRound_AggregatesAllParticipants(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	date := time.Now().Unix()
	roundID := f.submit(t, "p1", date, fullCards(5))
	f.submit(t, "p2", date, fullCards(4))

	tid := f.newTournament(t, "Club Championship")
	require.NoError(t, f.agg.AddRoundToTournament(tid, roundID))

	results, err := f.agg.Results(tid)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Index 10.0 on SR 135 / CR 70.3 / par 72 gives course handicap 10, one
	// allocation stroke on the ten hardest holes.
	var p1 tournament.Result
	for _, r := range results {
		if r.PlayerID == "p1" {
			p1 = r
		}
	}
	assert.Equal(t, 1, p1.PlayedRounds)
	assert.Equal(t, 90, p1.GrossStrokes)
	assert.Equal(t, 80, p1.NetStrokes)
	// Bogey golf on par 72: one gross point per par 4, two per par 5.
	assert.Equal(t, 18, p1.StablefordGross)
	// Each allocation stroke lifts the hole by exactly one point here.
	assert.Equal(t, 28, p1.StablefordNet)
	assert.Equal(t, "Anna Madsen", p1.PlayerName)

	assert.Equal(t, 2, f.m.RoundsAggregatedCount)

	round, err := f.cons.GetRound(roundID)
	require.NoError(t, err)
	assert.Equal(t, tid, round.TournamentID)
}

func TestAddRound_RecordsAuditTrail(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	roundID := f.submit(t, "p1", time.Now().Unix(), fullCards(5))
	tid := f.newTournament(t, "Club Championship")
	require.NoError(t, f.agg.AddRoundToTournament(tid, roundID))

	records, err := f.agg.RoundBreakdown(tid)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, roundID, records[0].RoundID)
	assert.Equal(t, "Oakridge", records[0].CourseName)
	assert.Equal(t, 90, records[0].GrossStrokes)
	assert.Equal(t, 80, records[0].NetStrokes)
	// No corrections apply at bogey pace, so the differential is computed
	// from the raw 90.
	assert.InDelta(t, (113.0/135.0)*(90-70.3), records[0].ScoreDifferential, 0.001)
}

func TestGuard_PlayerCountedExactlyOnce(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	date := time.Now().Unix()
	roundID := f.submit(t, "p1", date, fullCards(5))
	tid := f.newTournament(t, "Club Championship")
	require.NoError(t, f.agg.AddRoundToTournament(tid, roundID))

	// Editing a counted player's scorecards re-evaluates the round, but the
	// guard keeps the already-folded totals untouched.
	require.NoError(t, f.cons.Edit(roundID, "p1", fullCards(6)))

	results, err := f.agg.Results(tid)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].PlayedRounds)
	assert.Equal(t, 90, results[0].GrossStrokes, "totals of a counted player are never corrected retroactively")

	records, err := f.agg.RoundBreakdown(tid)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGuard_LateJoinerIsCountedWithoutDoubleCountingOthers(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	date := time.Now().Unix()
	roundID := f.submit(t, "p1", date, fullCards(5))
	tid := f.newTournament(t, "Club Championship")
	require.NoError(t, f.agg.AddRoundToTournament(tid, roundID))

	// p2 merges into the already-counted round; re-evaluation folds only p2.
	f.submit(t, "p2", date, fullCards(4))

	results, err := f.agg.Results(tid)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, 1, r.PlayedRounds)
		switch r.PlayerID {
		case "p1":
			assert.Equal(t, 90, r.GrossStrokes)
		case "p2":
			assert.Equal(t, 72, r.GrossStrokes)
		}
	}
	assert.Equal(t, 2, f.m.RoundsAggregatedCount)
}

func TestAddRound_IncompleteRoundRejectedAtomically(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	date := time.Now().Unix()
	roundID := f.submit(t, "p1", date, fullCards(5))

	// p2 has a hole with no strokes recorded.
	cards := fullCards(4)
	cards[17].Strokes = 0
	f.submit(t, "p2", date, cards)

	tid := f.newTournament(t, "Club Championship")
	err := f.agg.AddRoundToTournament(tid, roundID)
	require.ErrorIs(t, err, tournament.ErrTooFewHoles)

	// Rollback covers the link itself: the round stays unlinked and no
	// participant is counted, not even the complete one.
	round, err := f.cons.GetRound(roundID)
	require.NoError(t, err)
	assert.Empty(t, round.TournamentID)
	results, err := f.agg.Results(tid)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAddRound_AlreadyLinkedRejected(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	roundID := f.submit(t, "p1", time.Now().Unix(), fullCards(5))
	tid := f.newTournament(t, "Spring Open")
	require.NoError(t, f.agg.AddRoundToTournament(tid, roundID))

	require.ErrorIs(t, f.agg.AddRoundToTournament(tid, roundID), tournament.ErrRoundAlreadyAdded)

	other := f.newTournament(t, "Autumn Open")
	require.ErrorIs(t, f.agg.AddRoundToTournament(other, roundID), tournament.ErrRoundAlreadyAdded)
}

func TestAddRound_MissingSnapshotRejected(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	roundID := f.submit(t, "p1", time.Now().Unix(), fullCards(5))
	_, err := f.db.Exec("DELETE FROM player_rounds WHERE round_id = ? AND player_id = ?", roundID, "p1")
	require.NoError(t, err)

	tid := f.newTournament(t, "Club Championship")
	require.ErrorIs(t, f.agg.AddRoundToTournament(tid, roundID), tournament.ErrMissingPlayerRound)

	round, err := f.cons.GetRound(roundID)
	require.NoError(t, err)
	assert.Empty(t, round.TournamentID)
}

func TestAddRound_UnknownTournamentOrRound(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	roundID := f.submit(t, "p1", time.Now().Unix(), fullCards(5))
	require.ErrorIs(t, f.agg.AddRoundToTournament("nope", roundID), tournament.ErrTournamentNotFound)

	tid := f.newTournament(t, "Club Championship")
	require.ErrorIs(t, f.agg.AddRoundToTournament(tid, "nope"), tournament.ErrRoundNotFound)
}

func TestResults_FoldAdditivelyAcrossRounds(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	date := time.Now().Unix()
	first := f.submit(t, "p1", date, fullCards(5))
	second := f.submit(t, "p1", date+86400, fullCards(4))

	tid := f.newTournament(t, "Club Championship")
	require.NoError(t, f.agg.AddRoundToTournament(tid, first))
	require.NoError(t, f.agg.AddRoundToTournament(tid, second))

	results, err := f.agg.Results(tid)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].PlayedRounds)
	assert.Equal(t, 90+72, results[0].GrossStrokes)
	assert.Equal(t, 80+62, results[0].NetStrokes)

	records, err := f.agg.RoundBreakdown(tid)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestResults_OrderedByRoundsThenStableford(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	date := time.Now().Unix()
	// p1 plays two rounds; p2 and p3 share one round, p3 scoring better.
	r1 := f.submit(t, "p1", date, fullCards(5))
	r2 := f.submit(t, "p1", date+86400, fullCards(5))
	r3 := f.submit(t, "p2", date+2*86400, fullCards(6))
	f.submit(t, "p3", date+2*86400, fullCards(4))

	tid := f.newTournament(t, "Club Championship")
	for _, id := range []string{r1, r2, r3} {
		require.NoError(t, f.agg.AddRoundToTournament(tid, id))
	}

	results, err := f.agg.Results(tid)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "p1", results[0].PlayerID, "most rounds played leads")
	assert.Equal(t, "p3", results[1].PlayerID, "Stableford net breaks the tie")
	assert.Equal(t, "p2", results[2].PlayerID)
}

func TestGetTournament(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()

	tid := f.newTournament(t, "Club Championship")
	got, err := f.agg.GetTournament(tid)
	require.NoError(t, err)
	assert.Equal(t, "Club Championship", got.Name)

	_, err = f.agg.GetTournament("nope")
	assert.ErrorIs(t, err, tournament.ErrTournamentNotFound)

	all, err := f.agg.GetAllTournaments()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
