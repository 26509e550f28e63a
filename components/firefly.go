package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Firefly is a point riding a track at a signed arclength velocity.
// Track is an index into the scene's track slice, and Index is the firefly's
// own stable position in the scene's firefly slice.
type Firefly struct {
	Index    int
	Track    int
	Phase    float64 // always in [0, tracks[Track].Length)
	Velocity float64 // arclength units per second; sign is the direction
	Selected bool
	Trail    Trail
}

// Position returns the firefly's world position.
func (f *Firefly) Position(tracks []Track) r2.Vec {
	return tracks[f.Track].At(f.Phase)
}

// Intensity is the trail brightness derived from speed. Values above 1 are
// possible; renderers clamp.
func (f *Firefly) Intensity() float64 {
	return math.Max(f.Velocity, 1) / 8
}

// Clone returns a deep copy, including the trail buffer.
func (f Firefly) Clone() Firefly {
	f.Trail = f.Trail.Clone()
	return f
}

// Trail is a fixed-capacity ring of recent positions. The write pointer is
// shared by all trails and owned by the trail manager.
type Trail struct {
	Points []r2.Vec
}

// NewTrail allocates a trail with n slots.
func NewTrail(n int) Trail {
	return Trail{Points: make([]r2.Vec, n)}
}

// Len returns the trail capacity.
func (t Trail) Len() int {
	return len(t.Points)
}

// At returns the i-th newest sample given the shared write pointer.
func (t Trail) At(i, pointer int) r2.Vec {
	n := len(t.Points)
	return t.Points[(i+pointer)%n]
}

// Clone returns a copy that shares no storage with t.
func (t Trail) Clone() Trail {
	if t.Points == nil {
		return t
	}
	pts := make([]r2.Vec, len(t.Points))
	copy(pts, t.Points)
	return Trail{Points: pts}
}
