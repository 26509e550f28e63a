package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireflies/components"
)

// Ripple timing in host frames.
const (
	RippleCycle        = 900
	RippleDuration     = 600
	RippleReturnOffset = 450
	RippleReach        = 0.26 // board units
)

var (
	tintNeutral = rl.Color{R: 128, G: 128, B: 128, A: 255}
	tintAttract = rl.Color{R: 136, G: 136, B: 64, A: 255}
	tintReturn  = rl.Color{R: 160, G: 96, B: 216, A: 255}

	fireflyColor         = rl.Color{R: 255, G: 255, B: 16, A: 255}
	fireflySelectedColor = rl.Color{R: 255, G: 64, B: 64, A: 255}

	backgroundColor = rl.Color{R: 5, G: 8, B: 1, A: 255}
	gridColor       = rl.Color{R: 30, G: 30, B: 30, A: 255}
	sensorRimColor  = rl.Color{R: 64, G: 64, B: 64, A: 128}
)

// TrackTint returns a track's draw color. A return flag overrides attract;
// selection lightens halfway to white.
func TrackTint(flags components.TrackFlags, selected bool) rl.Color {
	t := tintNeutral
	if flags.Has(components.FlagAttract) {
		t = tintAttract
	}
	if flags.Has(components.FlagReturn) {
		t = tintReturn
	}
	if selected {
		t.R = 255 - (255-t.R)/2
		t.G = 255 - (255-t.G)/2
		t.B = 255 - (255-t.B)/2
	}
	return t
}

// Ripple returns the offset and opacity of a track's pulse at frame tick.
// Returning tracks pulse outward half a cycle after attracting tracks pulse
// inward; alpha is zero between pulses.
func Ripple(flags components.TrackFlags, tick int64) (dist, alpha float64) {
	if flags.Has(components.FlagReturn) {
		if p := float64((tick+RippleReturnOffset)%RippleCycle) / RippleDuration; p < 1 {
			dist = (1 - math.Pow(1-p, 4)) * RippleReach
			alpha = 13 * math.Exp(-4*p) * math.Sin(p) * (1 - p) * 0.6
		}
	}
	if flags.Has(components.FlagAttract) {
		if p := float64(tick%RippleCycle) / RippleDuration; p < 1 {
			dist = math.Pow(1-p, 4) * RippleReach
			alpha = 19 * math.Exp(-5.9*p) * math.Sin(p) * (1 - p) * 0.6
		}
	}
	return dist, alpha
}

// Premultiply scales every channel by alpha, for additive blending.
func Premultiply(c rl.Color, alpha float64) rl.Color {
	alpha = math.Max(0, math.Min(1, alpha))
	return rl.Color{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}
