// Package components defines the simulation data types: tracks, fireflies and
// the ECS components that make up a bellflower.
package components

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerateTrack is returned when a track would have non-positive length.
var ErrDegenerateTrack = errors.New("degenerate track")

// TrackFlags is a bitset over track behaviors.
type TrackFlags uint8

const (
	FlagAttract TrackFlags = 1 << 0 // crossing fireflies transfer onto the track
	FlagReturn  TrackFlags = 1 << 1 // crossing fireflies bounce back
	FlagFixed   TrackFlags = 1 << 4 // not draggable, skipped by track picking

	// FlagCollidable marks tracks that can be the target of a crossing test.
	FlagCollidable = FlagAttract | FlagReturn
)

// Has reports whether any bit of mask is set.
func (f TrackFlags) Has(mask TrackFlags) bool {
	return f&mask != 0
}

func (f TrackFlags) String() string {
	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if f.Has(FlagAttract) {
		add("attract")
	}
	if f.Has(FlagReturn) {
		add("return")
	}
	if f.Has(FlagFixed) {
		add("fixed")
	}
	if s == "" {
		return "none"
	}
	return s
}

// TrackKind selects the curve variant of a Track.
type TrackKind uint8

const (
	TrackCircle TrackKind = iota
	TrackSegment
)

func (k TrackKind) String() string {
	switch k {
	case TrackCircle:
		return "circle"
	case TrackSegment:
		return "segment"
	}
	return fmt.Sprintf("TrackKind(%d)", uint8(k))
}

// Track is a curve with an arclength coordinate in [0, Length).
// The variant set is closed, so the curve parameters live side by side and
// Kind picks which ones apply.
type Track struct {
	Kind     TrackKind
	Origin   r2.Vec
	Length   float64
	Flags    TrackFlags
	Selected bool

	// Circle
	Radius   float64
	FixAngle float64 // angle of the fix marks (render only)
	FixCount int     // number of fix marks (render only)

	// Segment: unit direction, centered on Origin
	Dir r2.Vec
}

// NewCircle creates a circular track of the given radius centered on origin.
func NewCircle(origin r2.Vec, radius float64, flags TrackFlags, fixAngle float64, fixCount int) (Track, error) {
	if !(radius > 0) {
		return Track{}, fmt.Errorf("%w: circle radius %g", ErrDegenerateTrack, radius)
	}
	return Track{
		Kind:     TrackCircle,
		Origin:   origin,
		Length:   2 * math.Pi * radius,
		Flags:    flags,
		Radius:   radius,
		FixAngle: fixAngle,
		FixCount: fixCount,
	}, nil
}

// NewSegment creates a line segment centered on origin that extends by ext
// on both sides.
func NewSegment(origin, ext r2.Vec, flags TrackFlags) (Track, error) {
	n := r2.Norm(ext)
	if !(n > 0) {
		return Track{}, fmt.Errorf("%w: segment extension %v", ErrDegenerateTrack, ext)
	}
	return Track{
		Kind:   TrackSegment,
		Origin: origin,
		Length: 2 * n,
		Flags:  flags,
		Dir:    r2.Scale(1/n, ext),
	}, nil
}

// Local returns the curve point at phase t relative to Origin.
func (tr *Track) Local(t float64) r2.Vec {
	if tr.Kind == TrackSegment {
		return r2.Scale(t-tr.Length/2, tr.Dir)
	}
	return r2.Rotate(r2.Vec{X: tr.Radius}, t/tr.Radius, r2.Vec{})
}

// At returns the world position at phase t.
func (tr *Track) At(t float64) r2.Vec {
	return r2.Add(tr.Local(t), tr.Origin)
}

// Project returns the phase of the curve point nearest to p and the distance
// to it. Segment phases are clamped to [0, Length].
func (tr *Track) Project(p r2.Vec) (phase, dist float64) {
	q := r2.Sub(p, tr.Origin)
	if tr.Kind == TrackSegment {
		half := tr.Length / 2
		t := math.Max(-half, math.Min(half, r2.Dot(q, tr.Dir)))
		return t + half, r2.Norm(r2.Sub(q, r2.Scale(t, tr.Dir)))
	}
	a := math.Atan2(q.Y, q.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	onCurve := r2.Rotate(r2.Vec{X: tr.Radius}, a, r2.Vec{})
	return a * tr.Radius, r2.Norm(r2.Sub(q, onCurve))
}

// Wrap reduces t into [0, Length).
func (tr *Track) Wrap(t float64) float64 {
	if t >= 0 && t < tr.Length {
		return t
	}
	t = math.Mod(t, tr.Length)
	if t < 0 {
		t += tr.Length
	}
	if t >= tr.Length {
		t = 0
	}
	return t
}

// Seat maps a projected phase into [0, Length). Circles wrap; a segment keeps
// the far endpoint by stepping just inside it rather than jumping to the near end.
func (tr *Track) Seat(t float64) float64 {
	if tr.Kind == TrackSegment && t >= tr.Length {
		return math.Nextafter(tr.Length, 0)
	}
	return tr.Wrap(t)
}
