package course

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new course Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// UpsertCourse writes a course with its holes and tees in one transaction.
// Holes and tees are replaced wholesale; a course layout is reference data,
// not something edited hole by hole.
func (s *store) UpsertCourse(course Course, holes []Hole, tees []Tee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO courses (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name;
	`, course.ID, course.Name, time.Now().Unix())
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to upsert course: %w", err)
	}

	if _, err = tx.Exec("DELETE FROM holes WHERE course_id = ?", course.ID); err != nil {
		tx.Rollback()
		return err
	}
	for _, h := range holes {
		_, err = tx.Exec(`
			INSERT INTO holes (course_id, number, par, stroke_index) VALUES (?, ?, ?, ?)
		`, course.ID, h.Number, h.Par, h.StrokeIndex)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert hole %d: %w", h.Number, err)
		}
	}

	for _, tee := range tees {
		_, err = tx.Exec(`
			INSERT INTO tees (id, course_id, name, course_rating, slope_rating, tee_type)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				course_rating = excluded.course_rating,
				slope_rating = excluded.slope_rating,
				tee_type = excluded.tee_type;
		`, tee.ID, course.ID, tee.Name, tee.CourseRating, tee.SlopeRating, string(tee.TeeType))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert tee %s: %w", tee.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Upserted course", "courseID", course.ID, "holes", len(holes), "tees", len(tees))
	return nil
}

// GetCourse returns the course with its par computed from the hole catalog.
func (s *store) GetCourse(courseID string) (*Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Course
	err := s.db.QueryRow(`
		SELECT c.id, c.name, COALESCE((SELECT SUM(par) FROM holes WHERE course_id = c.id), 0)
		FROM courses c WHERE c.id = ?
	`, courseID).Scan(&c.ID, &c.Name, &c.Par)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("course %s not found", courseID)
		}
		return nil, fmt.Errorf("failed to query course: %w", err)
	}
	return &c, nil
}

// GetHoles returns the holes for a course ordered by hole number.
func (s *store) GetHoles(courseID string) ([]Hole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT number, par, stroke_index FROM holes
		WHERE course_id = ? ORDER BY number
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holes: %w", err)
	}
	defer rows.Close()

	var holes []Hole
	for rows.Next() {
		var h Hole
		if err := rows.Scan(&h.Number, &h.Par, &h.StrokeIndex); err != nil {
			return nil, err
		}
		holes = append(holes, h)
	}
	return holes, rows.Err()
}

// GetTee returns a single rated tee.
func (s *store) GetTee(teeID string) (*Tee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t Tee
	var teeType string
	err := s.db.QueryRow(`
		SELECT id, course_id, name, course_rating, slope_rating, tee_type
		FROM tees WHERE id = ?
	`, teeID).Scan(&t.ID, &t.CourseID, &t.Name, &t.CourseRating, &t.SlopeRating, &teeType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tee %s not found", teeID)
		}
		return nil, fmt.Errorf("failed to query tee: %w", err)
	}
	t.TeeType = TeeType(teeType)
	return &t, nil
}

// GetAllCourses lists the catalog for the courses endpoint.
func (s *store) GetAllCourses() ([]Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT c.id, c.name, COALESCE((SELECT SUM(par) FROM holes WHERE course_id = c.id), 0)
		FROM courses c ORDER BY c.name
	`)
	if err != nil {
		log.Error("Failed to query all courses", "error", err)
		return nil, err
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Par); err != nil {
			log.Error("Failed to scan course row", "error", err)
			continue
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
