// Package renderer draws a scene with raylib.
package renderer

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fireflies/camera"
	"github.com/pthm-cable/fireflies/components"
	"github.com/pthm-cable/fireflies/systems"
)

const (
	lineWidth       = 2
	fireflyRadius   = 4 // pixels
	fixMarkLength   = 0.13
	endMarkLength   = 0.1
	sensorCoreRatio = 0.5 // core disc radius in board units
)

// SceneRenderer draws tracks, fireflies and bellflowers.
type SceneRenderer struct {
	cam *camera.Camera
}

// NewSceneRenderer creates a scene renderer for the camera.
func NewSceneRenderer(cam *camera.Camera) *SceneRenderer {
	return &SceneRenderer{cam: cam}
}

func (r *SceneRenderer) scr(p r2.Vec) rl.Vector2 {
	x, y := r.cam.WorldToScreen(p)
	return rl.NewVector2(x, y)
}

func (r *SceneRenderer) line(a, b r2.Vec, c rl.Color) {
	rl.DrawLineEx(r.scr(a), r.scr(b), lineWidth, c)
}

func (r *SceneRenderer) ring(center r2.Vec, radius float64, segments int32, c rl.Color) {
	px := r.cam.Pixels(radius)
	rl.DrawRing(r.scr(center), px-lineWidth/2, px+lineWidth/2, 0, 360, segments, c)
}

// DrawTracks renders every track with its ripple at frame tick.
func (r *SceneRenderer) DrawTracks(tracks []components.Track, tick int64) {
	for i := range tracks {
		tr := &tracks[i]
		switch tr.Kind {
		case components.TrackCircle:
			r.drawCircle(tr, tick)
		case components.TrackSegment:
			r.drawSegment(tr, tick)
		}
	}
}

func (r *SceneRenderer) drawCircle(tr *components.Track, tick int64) {
	tint := TrackTint(tr.Flags, tr.Selected)
	r.ring(tr.Origin, tr.Radius, int32(24*math.Max(1, tr.Radius)), tint)

	if tr.Flags.Has(components.FlagFixed) {
		p := r2.Rotate(r2.Vec{X: tr.Radius}, tr.FixAngle, r2.Vec{})
		move := r2.Rotate(r2.Vec{X: fixMarkLength}, tr.FixAngle-1, r2.Vec{})
		at := r2.Add(tr.Origin, p)
		r.line(r2.Sub(at, move), r2.Add(at, move), tint)
		if tr.FixCount != 1 {
			at = r2.Sub(tr.Origin, p)
			r.line(r2.Sub(at, move), r2.Add(at, move), tint)
		}
	}

	dist, alpha := Ripple(tr.Flags, tick)
	if alpha <= 0 {
		return
	}
	c := Premultiply(tint, alpha)
	r.ring(tr.Origin, tr.Radius+dist, 48, c)
	if tr.Radius > dist {
		r.ring(tr.Origin, tr.Radius-dist, 48, c)
	}
}

func (r *SceneRenderer) drawSegment(tr *components.Track, tick int64) {
	tint := TrackTint(tr.Flags, tr.Selected)
	a, b := tr.At(0), tr.At(tr.Length)
	r.line(a, b, tint)

	n := r2.Vec{X: -tr.Dir.Y, Y: tr.Dir.X}
	if tr.Flags.Has(components.FlagFixed) {
		for _, end := range []r2.Vec{a, b} {
			r.line(r2.Sub(end, r2.Scale(endMarkLength, n)), r2.Add(end, r2.Scale(endMarkLength, n)), tint)
		}
	}

	dist, alpha := Ripple(tr.Flags, tick)
	if alpha <= 0 {
		return
	}
	c := Premultiply(tint, alpha)
	move := r2.Scale(dist, n)
	r.line(r2.Add(a, move), r2.Add(b, move), c)
	r.line(r2.Sub(a, move), r2.Sub(b, move), c)
}

// DrawFireflies renders every firefly and its trail, newest sample first.
// Trails are drawn with additive blending; off-screen points are skipped.
func (r *SceneRenderer) DrawFireflies(fireflies []components.Firefly, tracks []components.Track, pointer int) {
	rl.BeginBlendMode(rl.BlendAddColors)
	defer rl.EndBlendMode()

	margin := fireflyRadius / r.cam.Zoom
	for i := range fireflies {
		f := &fireflies[i]
		tint := fireflyColor
		if f.Selected {
			tint = fireflySelectedColor
		}
		fade := Premultiply(tint, f.Intensity())

		if p := f.Position(tracks); r.cam.IsVisible(p, margin) {
			rl.DrawCircleV(r.scr(p), fireflyRadius, tint)
		}
		n := f.Trail.Len()
		for j := 0; j < n; j++ {
			p := f.Trail.At(j, pointer)
			if !r.cam.IsVisible(p, margin) {
				continue
			}
			size := fireflyRadius - float32(j)/float32(n)*2
			rl.DrawCircleV(r.scr(p), size, fade)
		}
	}
}

// DrawBellflowers renders each sensor rim, its state and remaining count.
// Delayed bellflowers fill as they charge.
func (r *SceneRenderer) DrawBellflowers(views []systems.BellflowerView) {
	for _, v := range views {
		if !r.cam.IsVisible(v.Sensor.Origin, math.Max(v.Sensor.Radius, sensorCoreRatio)) {
			continue
		}
		center := r.scr(v.Sensor.Origin)
		r.ring(v.Sensor.Origin, v.Sensor.Radius, 48, sensorRimColor)

		core := r.cam.Pixels(sensorCoreRatio)
		if v.Delayed {
			rl.DrawCircleV(center, core, rl.Gray)
			rl.DrawCircleV(center, core*float32(v.Charge), rl.Green)
		} else {
			c := rl.Gray
			if v.On {
				c = rl.Green
			}
			rl.DrawCircleV(center, core, c)
		}
		rl.DrawText(fmt.Sprintf("%d", v.Count), int32(center.X)-4, int32(center.Y)-8, 16, rl.Black)
	}
}
