package tournament

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/birdiebook/birdiebook/internal/database"
	"github.com/birdiebook/birdiebook/internal/handicap"
	"github.com/birdiebook/birdiebook/internal/metrics"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// fullRoundHoles is the number of positive-stroke holes a participant needs
// before a round counts toward a tournament.
const fullRoundHoles = 18

// NewAggregator creates a new Aggregator.
func NewAggregator(db *sql.DB, m metrics.Metrics) Aggregator {
	return &aggregator{
		db:      db,
		metrics: m,
	}
}

func (a *aggregator) CreateTournament(name string, startDate, endDate int64) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := uuid.New().String()
	_, err := a.db.Exec(`
		INSERT INTO tournaments (id, name, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?)
	`, id, name, startDate, endDate, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("failed to create tournament: %w", err)
	}
	log.Info("Created tournament", "tournamentID", id, "name", name)
	return id, nil
}

func (a *aggregator) GetTournament(tournamentID string) (*Tournament, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var t Tournament
	err := a.db.QueryRow("SELECT id, name, start_date, end_date FROM tournaments WHERE id = ?", tournamentID).
		Scan(&t.ID, &t.Name, &t.StartDate, &t.EndDate)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *aggregator) GetAllTournaments() ([]Tournament, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.db.Query("SELECT id, name, start_date, end_date FROM tournaments ORDER BY start_date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tournaments []Tournament
	for rows.Next() {
		var t Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.StartDate, &t.EndDate); err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

// AddRoundToTournament is the direct aggregation path: link the round, then
// fold every participant into the tournament totals. The whole operation is
// one transaction; a precondition failure rolls the link back too.
func (a *aggregator) AddRoundToTournament(tournamentID, roundID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return database.WithTx(a.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM tournaments WHERE id = ?)", tournamentID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
		}

		var courseID string
		var linked sql.NullString
		err := tx.QueryRow("SELECT course_id, tournament_id FROM rounds WHERE id = ?", roundID).Scan(&courseID, &linked)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
		}
		if err != nil {
			return err
		}
		if linked.Valid && linked.String != "" {
			return fmt.Errorf("%w: round %s, tournament %s", ErrRoundAlreadyAdded, roundID, linked.String)
		}

		if _, err := tx.Exec("UPDATE rounds SET tournament_id = ? WHERE id = ?", tournamentID, roundID); err != nil {
			return err
		}

		return a.aggregateRoundTx(tx, tournamentID, roundID, courseID)
	})
}

// ReevaluateRoundTx is the edit path. It runs in the caller's transaction so
// the consolidation and the re-aggregation commit or roll back together.
func (a *aggregator) ReevaluateRoundTx(tx *sql.Tx, roundID string) error {
	var courseID string
	var linked sql.NullString
	err := tx.QueryRow("SELECT course_id, tournament_id FROM rounds WHERE id = ?", roundID).Scan(&courseID, &linked)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
	}
	if err != nil {
		return err
	}
	if !linked.Valid || linked.String == "" {
		log.Debug("Re-evaluation requested for unlinked round, nothing to do", "roundID", roundID)
		return nil
	}
	return a.aggregateRoundTx(tx, linked.String, roundID, courseID)
}

// participantCards is one player's hole-by-hole strokes for the round.
type participantCards struct {
	playerID string
	strokes  map[int]int // hole number -> strokes
}

// aggregateRoundTx folds one round into one tournament for every participant
// whose per-(player, round) guard is not yet engaged. All reads go through tx
// so the guard check and the totals update observe one consistent snapshot.
func (a *aggregator) aggregateRoundTx(tx *sql.Tx, tournamentID, roundID, courseID string) error {
	started := time.Now()

	participants, err := loadParticipantsTx(tx, roundID)
	if err != nil {
		return err
	}

	// Precondition over the whole round: every participant needs a full 18
	// positive-stroke holes before anything is counted.
	for _, p := range participants {
		scored := 0
		for _, strokes := range p.strokes {
			if strokes > 0 {
				scored++
			}
		}
		if scored != fullRoundHoles {
			return fmt.Errorf("%w: player %s has %d", ErrTooFewHoles, p.playerID, scored)
		}
	}

	holes, coursePar, courseName, err := loadCourseTx(tx, courseID)
	if err != nil {
		return err
	}

	for _, p := range participants {
		counted, err := a.aggregateParticipantTx(tx, tournamentID, roundID, courseName, coursePar, holes, p)
		if err != nil {
			return err
		}
		if counted {
			a.metrics.IncRoundsAggregated()
		}
	}

	a.metrics.ObserveAggregationDuration(time.Since(started).Seconds())
	return nil
}

// aggregateParticipantTx computes one player's round scores and folds them
// into the running totals. Returns false when the guard skipped the player.
func (a *aggregator) aggregateParticipantTx(tx *sql.Tx, tournamentID, roundID, courseName string, coursePar int, holes []handicap.Hole, p participantCards) (bool, error) {
	var whs, cr float64
	var sr int
	var guard sql.NullString
	err := tx.QueryRow(`
		SELECT whs_index, course_rating, slope_rating, tournament_id
		FROM player_rounds WHERE round_id = ? AND player_id = ?
	`, roundID, p.playerID).Scan(&whs, &cr, &sr, &guard)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("%w: player %s, round %s", ErrMissingPlayerRound, p.playerID, roundID)
	}
	if err != nil {
		return false, err
	}

	// The de-duplication guard. Whether the round arrives via the direct add
	// path or an edit-triggered re-evaluation, a player is counted exactly
	// once per physical round.
	if guard.Valid && guard.String != "" {
		log.Info("Skipping already-aggregated player", "playerID", p.playerID, "roundID", roundID, "countedFor", guard.String)
		return false, nil
	}

	ch := handicap.CourseHandicap(whs, sr, cr, coursePar)
	alloc := handicap.StrokeAllocation(ch, holes)

	gross := 0
	stbNet := 0
	stbGross := 0
	correctedSum := 0
	for _, h := range holes {
		stroke := p.strokes[h.Number]
		gross += stroke
		stbNet += handicap.StablefordNet(h.Par, stroke, alloc[h.Number])
		stbGross += handicap.StablefordGross(h.Par, stroke)
		correctedSum += handicap.CorrectedStroke(stroke, alloc[h.Number], h.Par)
	}
	net := handicap.NetStrokes(gross, ch)
	differential := handicap.ScoreDifferential(correctedSum, sr, cr)

	// Fold into the running projection; created lazily on the first round.
	_, err = tx.Exec(`
		INSERT INTO tournament_results (tournament_id, player_id, played_rounds, gross_strokes, net_strokes, stableford_net, stableford_gross)
		VALUES (?, ?, 1, ?, ?, ?, ?)
		ON CONFLICT(tournament_id, player_id) DO UPDATE SET
			played_rounds = played_rounds + 1,
			gross_strokes = gross_strokes + excluded.gross_strokes,
			net_strokes = net_strokes + excluded.net_strokes,
			stableford_net = stableford_net + excluded.stableford_net,
			stableford_gross = stableford_gross + excluded.stableford_gross;
	`, tournamentID, p.playerID, gross, net, stbNet, stbGross)
	if err != nil {
		return false, fmt.Errorf("failed to fold tournament result: %w", err)
	}

	// Append-only audit record for this round.
	_, err = tx.Exec(`
		INSERT INTO tournament_rounds (id, tournament_id, player_id, round_id, course_name, gross_strokes, net_strokes, stableford_net, stableford_gross, score_differential, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), tournamentID, p.playerID, roundID, courseName, gross, net, stbNet, stbGross, differential, time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("failed to record tournament round: %w", err)
	}

	// Engage the guard so later re-evaluations skip this player.
	if _, err := tx.Exec(`
		UPDATE player_rounds SET tournament_id = ? WHERE round_id = ? AND player_id = ?
	`, tournamentID, roundID, p.playerID); err != nil {
		return false, err
	}

	log.Info("Aggregated player round into tournament",
		"tournamentID", tournamentID, "playerID", p.playerID, "roundID", roundID,
		"courseHandicap", ch, "gross", gross, "net", net, "stbNet", stbNet, "stbGross", stbGross)
	return true, nil
}

func loadParticipantsTx(tx *sql.Tx, roundID string) ([]participantCards, error) {
	rows, err := tx.Query(`
		SELECT player_id, hole_number, strokes FROM scorecards
		WHERE round_id = ? ORDER BY player_id, hole_number
	`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byPlayer := make(map[string]*participantCards)
	var order []string
	for rows.Next() {
		var playerID string
		var hole, strokes int
		if err := rows.Scan(&playerID, &hole, &strokes); err != nil {
			return nil, err
		}
		p, ok := byPlayer[playerID]
		if !ok {
			p = &participantCards{playerID: playerID, strokes: make(map[int]int)}
			byPlayer[playerID] = p
			order = append(order, playerID)
		}
		p.strokes[hole] = strokes
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	participants := make([]participantCards, 0, len(order))
	for _, id := range order {
		participants = append(participants, *byPlayer[id])
	}
	return participants, nil
}

func loadCourseTx(tx *sql.Tx, courseID string) ([]handicap.Hole, int, string, error) {
	var courseName string
	if err := tx.QueryRow("SELECT name FROM courses WHERE id = ?", courseID).Scan(&courseName); err != nil {
		return nil, 0, "", fmt.Errorf("failed to look up course %s: %w", courseID, err)
	}

	rows, err := tx.Query("SELECT number, par, stroke_index FROM holes WHERE course_id = ? ORDER BY number", courseID)
	if err != nil {
		return nil, 0, "", err
	}
	defer rows.Close()

	var holes []handicap.Hole
	coursePar := 0
	for rows.Next() {
		var h handicap.Hole
		if err := rows.Scan(&h.Number, &h.Par, &h.StrokeIndex); err != nil {
			return nil, 0, "", err
		}
		holes = append(holes, h)
		coursePar += h.Par
	}
	return holes, coursePar, courseName, rows.Err()
}

// Results returns the standings for a tournament. Ordering is a presentation
// concern fixed here: played rounds desc, then Stableford net desc.
func (a *aggregator) Results(tournamentID string) ([]Result, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.db.Query(`
		SELECT tr.tournament_id, tr.player_id, p.name, tr.played_rounds, tr.gross_strokes, tr.net_strokes, tr.stableford_net, tr.stableford_gross
		FROM tournament_results tr
		JOIN players p ON tr.player_id = p.id
		WHERE tr.tournament_id = ?
		ORDER BY tr.played_rounds DESC, tr.stableford_net DESC
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.TournamentID, &r.PlayerID, &r.PlayerName, &r.PlayedRounds, &r.GrossStrokes, &r.NetStrokes, &r.StablefordNet, &r.StablefordGross); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// RoundBreakdown returns the append-only audit trail for a tournament.
func (a *aggregator) RoundBreakdown(tournamentID string) ([]TournamentRound, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	rows, err := a.db.Query(`
		SELECT id, tournament_id, player_id, round_id, course_name, gross_strokes, net_strokes, stableford_net, stableford_gross, score_differential
		FROM tournament_rounds WHERE tournament_id = ? ORDER BY created_at DESC, id
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TournamentRound
	for rows.Next() {
		var tr TournamentRound
		if err := rows.Scan(&tr.ID, &tr.TournamentID, &tr.PlayerID, &tr.RoundID, &tr.CourseName, &tr.GrossStrokes, &tr.NetStrokes, &tr.StablefordNet, &tr.StablefordGross, &tr.ScoreDifferential); err != nil {
			return nil, err
		}
		records = append(records, tr)
	}
	return records, rows.Err()
}
