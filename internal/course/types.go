package course

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the course catalog.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// TeeType says which holes a tee is rated for.
type TeeType string

const (
	TeeTypeFull18 TeeType = "FULL_18"
	TeeTypeFront9 TeeType = "FRONT_9"
	TeeTypeBack9  TeeType = "BACK_9"
)

// Course is a playable course. Par is the sum of its hole pars.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Par  int    `json:"par"`
}

// Hole carries per-hole par and the stroke index (1..18, unique per course)
// used to decide which holes receive an extra handicap stroke.
type Hole struct {
	Number      int `json:"number"`
	Par         int `json:"par"`
	StrokeIndex int `json:"stroke_index"`
}

// Tee is a rated tee box: course rating, slope rating and which holes it covers.
type Tee struct {
	ID           string  `json:"id"`
	CourseID     string  `json:"course_id"`
	Name         string  `json:"name"`
	CourseRating float64 `json:"course_rating"`
	SlopeRating  int     `json:"slope_rating"`
	TeeType      TeeType `json:"tee_type"`
}
