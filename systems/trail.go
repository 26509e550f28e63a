package systems

import "github.com/pthm-cable/fireflies/components"

// TrailManager drives the shared sampling cadence of all firefly trails.
// One write pointer serves every trail so they fade in step.
type TrailManager struct {
	length   int
	interval int
	span     float64 // seconds between samples
	counter  int
	pointer  int
}

// NewTrailManager creates a manager sampling every interval steps into
// trails of the given length.
func NewTrailManager(length, interval int, stepsPerSecond float64) *TrailManager {
	return &TrailManager{
		length:   length,
		interval: interval,
		span:     float64(interval) / stepsPerSecond,
	}
}

// Pointer returns the slot holding the newest sample.
func (m *TrailManager) Pointer() int {
	return m.pointer
}

// Length returns the number of slots per trail.
func (m *TrailManager) Length() int {
	return m.length
}

// Reset zeroes the sampling counters.
func (m *TrailManager) Reset() {
	m.counter = 0
	m.pointer = 0
}

// RecalcInit refills every trail with positions reaching backward along the
// firefly's current track, so an edited scene shows no stale jump.
func (m *TrailManager) RecalcInit(fireflies []components.Firefly, tracks []components.Track) {
	for i := range fireflies {
		f := &fireflies[i]
		if f.Trail.Len() != m.length {
			f.Trail = components.NewTrail(m.length)
		}
		tr := &tracks[f.Track]
		for j := range f.Trail.Points {
			f.Trail.Points[j] = tr.At(f.Phase - f.Velocity*m.span*float64(j))
		}
	}
}

// Step counts one simulation step and records a sample every interval steps.
func (m *TrailManager) Step(fireflies []components.Firefly, tracks []components.Track) {
	m.counter++
	if m.counter < m.interval {
		return
	}
	m.counter = 0
	m.pointer = (m.pointer + m.length - 1) % m.length
	for i := range fireflies {
		f := &fireflies[i]
		f.Trail.Points[m.pointer] = f.Position(tracks)
	}
}
