package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fireflies/components"
)

// BellflowerView is the render-facing state of one bellflower.
type BellflowerView struct {
	Sensor  components.Sensor
	Count   int
	On      bool
	Delayed bool
	Charge  float64 // countdown progress, delayed bellflowers only
}

// BellflowerSystem samples firefly positions against every bellflower.
// Bellflowers are ECS entities: all carry Sensor and Counter, delayed ones
// additionally carry Delay.
type BellflowerSystem struct {
	immediate *ecs.Map2[components.Sensor, components.Counter]
	delayed   *ecs.Map3[components.Sensor, components.Counter, components.Delay]
	delayMap  *ecs.Map[components.Delay]
	filter    *ecs.Filter2[components.Sensor, components.Counter]

	order     []ecs.Entity // load order, for stable rendering
	positions []r2.Vec     // reused across updates
}

// NewBellflowerSystem creates a bellflower system on the given world.
func NewBellflowerSystem(w *ecs.World) *BellflowerSystem {
	return &BellflowerSystem{
		immediate: ecs.NewMap2[components.Sensor, components.Counter](w),
		delayed:   ecs.NewMap3[components.Sensor, components.Counter, components.Delay](w),
		delayMap:  ecs.NewMap[components.Delay](w),
		filter:    ecs.NewFilter2[components.Sensor, components.Counter](w),
	}
}

// AddImmediate creates a bellflower that is on whenever a firefly is within range.
func (s *BellflowerSystem) AddImmediate(sensor components.Sensor, count int) ecs.Entity {
	counter := components.NewCounter(count)
	e := s.immediate.NewEntity(&sensor, &counter)
	s.order = append(s.order, e)
	return e
}

// AddDelayed creates a bellflower that needs steps ticks of continuous presence.
func (s *BellflowerSystem) AddDelayed(sensor components.Sensor, count, steps int) ecs.Entity {
	counter := components.NewCounter(count)
	delay := components.NewDelay(steps)
	e := s.delayed.NewEntity(&sensor, &counter, &delay)
	s.order = append(s.order, e)
	return e
}

// Len returns the number of bellflowers.
func (s *BellflowerSystem) Len() int {
	return len(s.order)
}

// Update samples this tick's firefly positions and returns the number of
// counters that fired.
func (s *BellflowerSystem) Update(fireflies []components.Firefly, tracks []components.Track) int {
	s.positions = s.positions[:0]
	for i := range fireflies {
		s.positions = append(s.positions, fireflies[i].Position(tracks))
	}

	fired := 0
	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		sensor, counter := query.Get()

		on := s.anyWithin(sensor)
		if s.delayMap.Has(entity) {
			on = s.delayMap.Get(entity).Advance(on)
		}
		if counter.Signal(on) {
			fired++
		}
	}
	return fired
}

func (s *BellflowerSystem) anyWithin(sensor *components.Sensor) bool {
	for _, p := range s.positions {
		if sensor.Contains(p) {
			return true
		}
	}
	return false
}

// Reset restores every counter, latch and countdown to its initial state.
func (s *BellflowerSystem) Reset() {
	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		_, counter := query.Get()
		counter.Reset()
		if s.delayMap.Has(entity) {
			s.delayMap.Get(entity).Reset()
		}
	}
}

// View returns the state of the i-th bellflower in load order.
func (s *BellflowerSystem) View(i int) BellflowerView {
	e := s.order[i]
	sensor, counter := s.immediate.Get(e)
	v := BellflowerView{Sensor: *sensor, Count: counter.Count, On: counter.LastOn}
	if s.delayMap.Has(e) {
		d := s.delayMap.Get(e)
		v.Delayed = true
		v.Charge = d.Charge()
	}
	return v
}

// Views returns the state of all bellflowers in load order.
func (s *BellflowerSystem) Views() []BellflowerView {
	views := make([]BellflowerView, len(s.order))
	for i := range s.order {
		views[i] = s.View(i)
	}
	return views
}

// Cleared reports whether every counter has reached zero.
func (s *BellflowerSystem) Cleared() bool {
	if len(s.order) == 0 {
		return false
	}
	query := s.filter.Query()
	cleared := true
	for query.Next() {
		_, counter := query.Get()
		if counter.Count != 0 {
			cleared = false
		}
	}
	return cleared
}
