package rounds

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/birdiebook/birdiebook/internal/course"
	"github.com/birdiebook/birdiebook/internal/database"
	"github.com/birdiebook/birdiebook/internal/metrics"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// maxPlayers is the capacity of one physical round (a flight of four).
const maxPlayers = 4

// New creates a new Consolidator. The Reevaluator is called synchronously,
// within the same transaction, whenever a tournament-linked round is mutated.
func New(db *sql.DB, courses course.Store, reeval Reevaluator, m metrics.Metrics) Consolidator {
	return &consolidator{
		db:      db,
		courses: courses,
		reeval:  reeval,
		metrics: m,
	}
}

func validateScorecards(playerID string, cards []ScoreCard) error {
	if len(cards) == 0 {
		return fmt.Errorf("%w: empty scorecard set", ErrInvalidScorecard)
	}
	seen := make(map[int]bool, len(cards))
	for _, card := range cards {
		if card.HoleNumber < 1 || card.HoleNumber > 18 {
			return fmt.Errorf("%w: hole number %d out of range", ErrInvalidScorecard, card.HoleNumber)
		}
		if seen[card.HoleNumber] {
			return fmt.Errorf("%w: duplicate hole number %d", ErrInvalidScorecard, card.HoleNumber)
		}
		seen[card.HoleNumber] = true
		if card.Strokes < 0 {
			return fmt.Errorf("%w: negative stroke count on hole %d", ErrInvalidScorecard, card.HoleNumber)
		}
		if card.PlayerID != "" && card.PlayerID != playerID {
			return fmt.Errorf("%w: scorecard tagged with foreign player %s", ErrInvalidScorecard, card.PlayerID)
		}
	}
	return nil
}

// Submit merges one player's submission into the canonical round for its
// (course, date) key. The UNIQUE(course_id, round_date) constraint backs the
// lookup-then-insert against racing submissions; everything below runs in
// one transaction, so a failed precondition leaves nothing behind.
func (c *consolidator) Submit(sub Submission) (string, error) {
	if err := validateScorecards(sub.PlayerID, sub.Scorecards); err != nil {
		return "", err
	}

	// Tee ratings are reference data; read them through the catalog before
	// opening the write transaction.
	tee, err := c.courses.GetTee(sub.TeeID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var roundID string
	merged := false
	err = database.WithTx(c.db, func(tx *sql.Tx) error {
		var whs float64
		err := tx.QueryRow("SELECT whs_index FROM players WHERE id = ?", sub.PlayerID).Scan(&whs)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, sub.PlayerID)
		}
		if err != nil {
			return fmt.Errorf("failed to look up player: %w", err)
		}

		var tournamentID sql.NullString
		err = tx.QueryRow("SELECT id, tournament_id FROM rounds WHERE course_id = ? AND round_date = ?",
			sub.CourseID, sub.RoundDate).Scan(&roundID, &tournamentID)
		switch {
		case err == sql.ErrNoRows:
			roundID = uuid.New().String()
			_, err = tx.Exec(`
				INSERT INTO rounds (id, course_id, round_date, created_at) VALUES (?, ?, ?, ?)
			`, roundID, sub.CourseID, sub.RoundDate, time.Now().Unix())
			if err != nil {
				return fmt.Errorf("failed to create round: %w", err)
			}
			log.Info("Created new round", "roundID", roundID, "courseID", sub.CourseID, "playerID", sub.PlayerID)
		case err != nil:
			return fmt.Errorf("failed to look up round: %w", err)
		default:
			var playerCount int
			if err := tx.QueryRow("SELECT COUNT(DISTINCT player_id) FROM scorecards WHERE round_id = ?", roundID).
				Scan(&playerCount); err != nil {
				return err
			}
			if playerCount >= maxPlayers {
				return fmt.Errorf("%w: round %s", ErrTooManyPlayers, roundID)
			}
			var already bool
			if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM scorecards WHERE round_id = ? AND player_id = ?)",
				roundID, sub.PlayerID).Scan(&already); err != nil {
				return err
			}
			if already {
				return fmt.Errorf("%w: player %s, round %s", ErrDuplicateSubmission, sub.PlayerID, roundID)
			}
			merged = true
			log.Info("Merging submission into existing round", "roundID", roundID, "playerID", sub.PlayerID, "players", playerCount+1)
		}

		if err := insertScorecardsTx(tx, roundID, sub.PlayerID, sub.Scorecards); err != nil {
			return err
		}
		if err := upsertPlayerRoundTx(tx, roundID, sub.PlayerID, whs, tee); err != nil {
			return err
		}

		// A round already counted toward a tournament must not be aggregated
		// again through the direct path; the aggregator's per-(player, round)
		// guard decides what still needs counting.
		if tournamentID.Valid && tournamentID.String != "" {
			log.Info("Round is tournament-linked, requesting re-evaluation", "roundID", roundID, "tournamentID", tournamentID.String)
			if err := c.reeval.ReevaluateRoundTx(tx, roundID); err != nil {
				return fmt.Errorf("re-evaluation failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	c.metrics.IncRoundsSubmitted()
	if merged {
		c.metrics.IncRoundsConsolidated()
	}
	return roundID, nil
}

// Edit replaces one player's scorecard set wholesale. Other players' entries
// are never touched. The handicap snapshot is refreshed from the player's
// current index; the tee snapshot stays as submitted.
func (c *consolidator) Edit(roundID, playerID string, cards []ScoreCard) error {
	if err := validateScorecards(playerID, cards); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return database.WithTx(c.db, func(tx *sql.Tx) error {
		var tournamentID sql.NullString
		err := tx.QueryRow("SELECT tournament_id FROM rounds WHERE id = ?", roundID).Scan(&tournamentID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
		}
		if err != nil {
			return err
		}

		res, err := tx.Exec("DELETE FROM scorecards WHERE round_id = ? AND player_id = ?", roundID, playerID)
		if err != nil {
			return err
		}
		deleted, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("%w: player %s, round %s", ErrNotParticipant, playerID, roundID)
		}

		if err := insertScorecardsTx(tx, roundID, playerID, cards); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE player_rounds SET whs_index = (SELECT whs_index FROM players WHERE id = ?)
			WHERE round_id = ? AND player_id = ?
		`, playerID, roundID, playerID)
		if err != nil {
			return err
		}

		if tournamentID.Valid && tournamentID.String != "" {
			log.Info("Edited tournament-linked round, requesting re-evaluation", "roundID", roundID, "playerID", playerID)
			if err := c.reeval.ReevaluateRoundTx(tx, roundID); err != nil {
				return fmt.Errorf("re-evaluation failed: %w", err)
			}
		}
		return nil
	})
}

// Remove deletes one player's scorecards and snapshot from a round. The
// cascade is deliberate application logic, not a schema cascade: the round
// itself is deleted only when its last participant is removed.
func (c *consolidator) Remove(roundID, playerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return database.WithTx(c.db, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM rounds WHERE id = ?)", roundID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
		}

		res, err := tx.Exec("DELETE FROM scorecards WHERE round_id = ? AND player_id = ?", roundID, playerID)
		if err != nil {
			return err
		}
		deleted, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("%w: player %s, round %s", ErrNotParticipant, playerID, roundID)
		}

		if _, err := tx.Exec("DELETE FROM player_rounds WHERE round_id = ? AND player_id = ?", roundID, playerID); err != nil {
			return err
		}

		var remaining int
		if err := tx.QueryRow("SELECT COUNT(DISTINCT player_id) FROM scorecards WHERE round_id = ?", roundID).
			Scan(&remaining); err != nil {
			return err
		}
		if remaining == 0 {
			if _, err := tx.Exec("DELETE FROM rounds WHERE id = ?", roundID); err != nil {
				return err
			}
			log.Info("Deleted round after last player removal", "roundID", roundID)
		}
		return nil
	})
}

func insertScorecardsTx(tx *sql.Tx, roundID, playerID string, cards []ScoreCard) error {
	for _, card := range cards {
		_, err := tx.Exec(`
			INSERT INTO scorecards (round_id, player_id, hole_number, strokes, putts, penalties)
			VALUES (?, ?, ?, ?, ?, ?)
		`, roundID, playerID, card.HoleNumber, card.Strokes, card.Putts, card.Penalties)
		if err != nil {
			return fmt.Errorf("failed to insert scorecard for hole %d: %w", card.HoleNumber, err)
		}
	}
	return nil
}

// upsertPlayerRoundTx writes the per-(player, round) snapshot. The
// tournament_id guard column is deliberately left out of the update list so
// a resubmission can never reset an engaged guard.
func upsertPlayerRoundTx(tx *sql.Tx, roundID, playerID string, whs float64, tee *course.Tee) error {
	_, err := tx.Exec(`
		INSERT INTO player_rounds (round_id, player_id, whs_index, tee_id, course_rating, slope_rating, tee_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(round_id, player_id) DO UPDATE SET
			whs_index = excluded.whs_index,
			tee_id = excluded.tee_id,
			course_rating = excluded.course_rating,
			slope_rating = excluded.slope_rating,
			tee_type = excluded.tee_type;
	`, roundID, playerID, whs, tee.ID, tee.CourseRating, tee.SlopeRating, string(tee.TeeType))
	if err != nil {
		return fmt.Errorf("failed to upsert player round: %w", err)
	}
	return nil
}

// GetRound loads a round with its participants and scorecards.
func (c *consolidator) GetRound(roundID string) (*Round, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var r Round
	var tournamentID sql.NullString
	err := c.db.QueryRow("SELECT id, course_id, round_date, tournament_id FROM rounds WHERE id = ?", roundID).
		Scan(&r.ID, &r.CourseID, &r.RoundDate, &tournamentID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRoundNotFound, roundID)
	}
	if err != nil {
		return nil, err
	}
	r.TournamentID = tournamentID.String

	rows, err := c.db.Query(`
		SELECT round_id, player_id, hole_number, strokes, putts, penalties
		FROM scorecards WHERE round_id = ? ORDER BY player_id, hole_number
	`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var card ScoreCard
		if err := rows.Scan(&card.RoundID, &card.PlayerID, &card.HoleNumber, &card.Strokes, &card.Putts, &card.Penalties); err != nil {
			return nil, err
		}
		r.Scorecards = append(r.Scorecards, card)
		if !seen[card.PlayerID] {
			seen[card.PlayerID] = true
			r.Players = append(r.Players, card.PlayerID)
		}
	}
	return &r, rows.Err()
}

// GetAllRounds lists rounds newest first, without scorecards.
func (c *consolidator) GetAllRounds() ([]Round, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.Query(`
		SELECT r.id, r.course_id, r.round_date, r.tournament_id,
		       (SELECT COUNT(DISTINCT player_id) FROM scorecards WHERE round_id = r.id)
		FROM rounds r ORDER BY r.round_date DESC
	`)
	if err != nil {
		log.Error("Failed to query all rounds", "error", err)
		return nil, err
	}
	defer rows.Close()

	var result []Round
	for rows.Next() {
		var r Round
		var tournamentID sql.NullString
		var playerCount int
		if err := rows.Scan(&r.ID, &r.CourseID, &r.RoundDate, &tournamentID, &playerCount); err != nil {
			log.Error("Failed to scan round row", "error", err)
			continue
		}
		r.TournamentID = tournamentID.String
		result = append(result, r)
	}
	return result, rows.Err()
}

// ClearRound wipes one round with its scorecards and snapshots.
func (c *consolidator) ClearRound(roundID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return database.WithTx(c.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM scorecards WHERE round_id = ?", roundID); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM player_rounds WHERE round_id = ?", roundID); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM rounds WHERE id = ?", roundID)
		return err
	})
}

// Clear wipes all round data. Tournament projections are left alone.
func (c *consolidator) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return database.WithTx(c.db, func(tx *sql.Tx) error {
		for _, table := range []string{"scorecards", "player_rounds", "rounds"} {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetPlayerRound reads the per-(player, round) snapshot.
func (c *consolidator) GetPlayerRound(roundID, playerID string) (*PlayerRound, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var pr PlayerRound
	var teeType string
	var tournamentID sql.NullString
	err := c.db.QueryRow(`
		SELECT round_id, player_id, whs_index, tee_id, course_rating, slope_rating, tee_type, tournament_id
		FROM player_rounds WHERE round_id = ? AND player_id = ?
	`, roundID, playerID).Scan(&pr.RoundID, &pr.PlayerID, &pr.WHSIndex, &pr.TeeID, &pr.CourseRating, &pr.SlopeRating, &teeType, &tournamentID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player round snapshot missing for player %s, round %s", playerID, roundID)
	}
	if err != nil {
		return nil, err
	}
	pr.TeeType = course.TeeType(teeType)
	pr.TournamentID = tournamentID.String
	return &pr, nil
}
