package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fireflies/components"
	"github.com/pthm-cable/fireflies/config"
)

// PickKind says what a pointer landed on.
type PickKind uint8

const (
	PickNone PickKind = iota
	PickFirefly
	PickTrack
)

// Pick is the result of a pointer hit test.
type Pick struct {
	Kind  PickKind
	Index int
}

// FindNearest resolves what lies under p. The nearest firefly within the pick
// radius wins; otherwise the nearest non-fixed track within the pick distance.
func FindNearest(p r2.Vec, fireflies []components.Firefly, tracks []components.Track, cfg config.PickingConfig) Pick {
	best := Pick{}
	bestDist := cfg.FireflyRadius
	for i := range fireflies {
		if d := r2.Norm(r2.Sub(p, fireflies[i].Position(tracks))); d < bestDist {
			bestDist = d
			best = Pick{Kind: PickFirefly, Index: i}
		}
	}
	if best.Kind != PickNone {
		return best
	}

	bestDist = cfg.TrackDistance
	for i := range tracks {
		if tracks[i].Flags.Has(components.FlagFixed) {
			continue
		}
		if _, d := tracks[i].Project(p); d < bestDist {
			bestDist = d
			best = Pick{Kind: PickTrack, Index: i}
		}
	}
	return best
}
