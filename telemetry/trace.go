package telemetry

import (
	"github.com/pthm-cable/fireflies/components"
	"github.com/pthm-cable/fireflies/systems"
)

// FireflySample is one firefly's state at a sampled step.
type FireflySample struct {
	Run      int     `csv:"run"`
	Step     int64   `csv:"step"`
	Firefly  int     `csv:"firefly"`
	Track    int     `csv:"track"`
	Phase    float64 `csv:"phase"`
	Velocity float64 `csv:"velocity"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
}

// BellflowerSample is one bellflower's state at a sampled step.
type BellflowerSample struct {
	Run        int     `csv:"run"`
	Step       int64   `csv:"step"`
	Bellflower int     `csv:"bellflower"`
	Count      int     `csv:"count"`
	On         bool    `csv:"on"`
	Delayed    bool    `csv:"delayed"`
	Charge     float64 `csv:"charge"`
}

// EventRecord is a transfer or bounce.
type EventRecord struct {
	Run       int     `csv:"run"`
	Step      int64   `csv:"step"`
	Firefly   int     `csv:"firefly"`
	Outcome   string  `csv:"outcome"`
	FromTrack int     `csv:"from_track"`
	ToTrack   int     `csv:"to_track"`
	Phase     float64 `csv:"phase"`
	Velocity  float64 `csv:"velocity"`
}

// SampleFireflies appends one sample per firefly to dst.
func SampleFireflies(dst []FireflySample, run int, step int64, fireflies []components.Firefly, tracks []components.Track) []FireflySample {
	for i := range fireflies {
		f := &fireflies[i]
		p := f.Position(tracks)
		dst = append(dst, FireflySample{
			Run:      run,
			Step:     step,
			Firefly:  f.Index,
			Track:    f.Track,
			Phase:    f.Phase,
			Velocity: f.Velocity,
			X:        p.X,
			Y:        p.Y,
		})
	}
	return dst
}

// SampleBellflowers appends one sample per bellflower view to dst.
func SampleBellflowers(dst []BellflowerSample, run int, step int64, views []systems.BellflowerView) []BellflowerSample {
	for i, v := range views {
		dst = append(dst, BellflowerSample{
			Run:        run,
			Step:       step,
			Bellflower: i,
			Count:      v.Count,
			On:         v.On,
			Delayed:    v.Delayed,
			Charge:     v.Charge,
		})
	}
	return dst
}

// EventRecords converts motion events, stamping them with the run and step.
func EventRecords(dst []EventRecord, run int, step int64, events []systems.MotionEvent) []EventRecord {
	for _, ev := range events {
		dst = append(dst, EventRecord{
			Run:       run,
			Step:      step,
			Firefly:   ev.Firefly,
			Outcome:   ev.Outcome.String(),
			FromTrack: ev.FromTrack,
			ToTrack:   ev.ToTrack,
			Phase:     ev.Phase,
			Velocity:  ev.Velocity,
		})
	}
	return dst
}
