// Package handicap implements WHS-style course handicap, Stableford and
// score-differential math. Everything here is a pure function; state lives
// with the callers.
package handicap

import (
	"math"
	"sort"
)

// Hole is the slice of the course catalog the math needs: par and the 1..18
// stroke index deciding which holes absorb extra handicap strokes.
type Hole struct {
	Number      int
	Par         int
	StrokeIndex int
}

// CourseHandicap converts a player's handicap index to a course handicap for
// a specific tee: round(whs * sr / 113 + cr - par), rounded half up. The base
// formula does no clamping; callers must not pass an undefined whs.
func CourseHandicap(whs float64, sr int, cr float64, coursePar int) int {
	return int(math.Floor(whs*float64(sr)/113.0 + cr - float64(coursePar) + 0.5))
}

// StrokeAllocation distributes a course handicap across holes. Every hole
// gets floor(ch/18) strokes; the remainder goes one stroke at a time to the
// holes with the lowest stroke index. Returned map is keyed by hole number.
//
// This is recomputed on every scoring pass, never cached: the course handicap
// changes between tournament rounds as a player's index moves.
func StrokeAllocation(courseHandicap int, holes []Hole) map[int]int {
	base := courseHandicap / len(holes)
	if courseHandicap < 0 && courseHandicap%len(holes) != 0 {
		base-- // floor division for plus-handicap players
	}
	extra := courseHandicap - base*len(holes)

	bySI := make([]Hole, len(holes))
	copy(bySI, holes)
	sort.Slice(bySI, func(i, j int) bool { return bySI[i].StrokeIndex < bySI[j].StrokeIndex })

	alloc := make(map[int]int, len(holes))
	for i, h := range bySI {
		strokes := base
		if i < extra {
			strokes++
		}
		alloc[h.Number] = strokes
	}
	return alloc
}

// StablefordNet scores one hole net of allocated handicap strokes, floored at
// zero: par - (stroke - allocated) + 2.
func StablefordNet(par, stroke, allocatedHcpStrokes int) int {
	points := par - (stroke - allocatedHcpStrokes) + 2
	if points < 0 {
		return 0
	}
	return points
}

// StablefordGross scores one hole against raw par, floored at zero.
func StablefordGross(par, stroke int) int {
	points := par - stroke + 2
	if points < 0 {
		return 0
	}
	return points
}

// CorrectedStroke caps a blow-up hole at net double bogey for handicap
// differential purposes. Stableford points and gross totals are unaffected.
func CorrectedStroke(stroke, allocatedHcpStrokes, par int) int {
	cap := allocatedHcpStrokes + 2 + par
	if stroke > cap {
		return cap
	}
	return stroke
}

// ScoreDifferential is the normalized per-round performance number used in
// handicap revision: (113 / sr) * (correctedSum - cr). Left unrounded;
// display rounding is a presentation concern.
func ScoreDifferential(correctedStrokesSum int, sr int, cr float64) float64 {
	return (113.0 / float64(sr)) * (float64(correctedStrokesSum) - cr)
}

// NetStrokes is the gross total less the course handicap, floored at zero.
func NetStrokes(grossStrokes, courseHandicap int) int {
	net := grossStrokes - courseHandicap
	if net < 0 {
		return 0
	}
	return net
}
