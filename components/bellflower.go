package components

import "gonum.org/v1/gonum/spatial/r2"

// Sensor is the static sensing geometry of a bellflower.
type Sensor struct {
	Origin r2.Vec
	Radius float64
}

// Contains reports whether p lies within the sensing radius (inclusive).
func (s *Sensor) Contains(p r2.Vec) bool {
	return r2.Norm(r2.Sub(p, s.Origin)) <= s.Radius
}

// Counter counts rising edges of a bellflower's "on" signal downward from Initial.
type Counter struct {
	Initial int
	Count   int
	LastOn  bool
}

// NewCounter returns a counter in its reset state.
func NewCounter(initial int) Counter {
	return Counter{Initial: initial, Count: initial}
}

// Reset restores the initial count and clears the edge latch.
func (c *Counter) Reset() {
	c.Count = c.Initial
	c.LastOn = false
}

// Signal feeds this tick's level and reports whether it was a rising edge.
func (c *Counter) Signal(on bool) bool {
	rising := on && !c.LastOn
	if rising {
		c.Count--
	}
	c.LastOn = on
	return rising
}

// Delay makes a bellflower require sustained presence. Only delayed
// bellflowers carry it.
type Delay struct {
	Duration  int // steps of presence needed
	Remaining int
}

// NewDelay returns a delay in its reset state.
func NewDelay(steps int) Delay {
	return Delay{Duration: steps, Remaining: steps}
}

// Reset rearms the countdown.
func (d *Delay) Reset() {
	d.Remaining = d.Duration
}

// Advance runs one tick of the countdown and returns the resulting level.
// Leaving the radius rearms the countdown; no progress carries over.
func (d *Delay) Advance(within bool) bool {
	if !within {
		d.Remaining = d.Duration
		return false
	}
	if d.Remaining > 0 {
		d.Remaining--
	}
	return d.Remaining == 0
}

// Charge returns countdown progress in [0, 1].
func (d *Delay) Charge() float64 {
	if d.Duration <= 0 {
		return 1
	}
	return float64(d.Duration-d.Remaining) / float64(d.Duration)
}
