// Package systems provides the per-tick simulation systems.
package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fireflies/components"
)

// SegmentsCross reports whether segment ab intersects segment cd. Touching
// endpoints and collinear overlap count as crossing.
func SegmentsCross(a, b, c, d r2.Vec) bool {
	ab := r2.Sub(b, a)
	cd := r2.Sub(d, c)
	return r2.Cross(r2.Sub(c, a), ab)*r2.Cross(r2.Sub(d, a), ab) <= 0 &&
		r2.Cross(r2.Sub(a, c), cd)*r2.Cross(r2.Sub(b, c), cd) <= 0
}

// Crossing describes a displacement crossing a target track. From and To are
// the (possibly nudged) projections of the displacement's endpoints.
type Crossing struct {
	Track    int
	From, To float64
}

// CrossingTest detects a one-step displacement crossing a curved track.
//
// Over one step the curve between the two projected phases is close to its
// chord, so crossing the curve is tested as crossing that chord. The gate
// keeps far-away tracks out: their projections are not monotonic enough for
// the chord to stand in for the curve.
type CrossingTest struct {
	Gate    float64 // max distance from the pre-step point to the track
	Epsilon float64 // chord degeneracy threshold
}

// Cross tests displacement p1->p2 against tr.
func (c CrossingTest) Cross(tr *components.Track, p1, p2 r2.Vec) (from, to float64, ok bool) {
	t1, d1 := tr.Project(p1)
	if d1 >= c.Gate {
		return 0, 0, false
	}
	t2, _ := tr.Project(p2)
	if math.Abs(t1-t2) < c.Epsilon {
		d := c.Epsilon
		if t1 >= 1 {
			d = t1 * c.Epsilon
		}
		t1 -= d
		t2 += d
	}
	if !SegmentsCross(p1, p2, tr.At(t1), tr.At(t2)) {
		return 0, 0, false
	}
	return t1, t2, true
}

// First returns the first collidable track, other than skip, crossed by p1->p2.
func (c CrossingTest) First(tracks []components.Track, skip int, p1, p2 r2.Vec) (Crossing, bool) {
	for k := range tracks {
		tr := &tracks[k]
		if k == skip || !tr.Flags.Has(components.FlagCollidable) {
			continue
		}
		if from, to, ok := c.Cross(tr, p1, p2); ok {
			return Crossing{Track: k, From: from, To: to}, true
		}
	}
	return Crossing{}, false
}
