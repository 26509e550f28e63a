// Package inspector shows the state of the firefly or track under the
// pointer in a side panel. Panels are generated from tagged view structs.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireflies/camera"
	"github.com/pthm-cable/fireflies/components"
	"github.com/pthm-cable/fireflies/systems"
)

// Panel dimensions
const (
	PanelWidth   = 280
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorHighlight   = rl.Color{R: 255, G: 255, B: 255, A: 160}
)

// FireflyView is the inspected state of a firefly.
type FireflyView struct {
	Track     int
	Phase     float64 `inspect:"label,fmt:%.3f"`
	Angle     float64 `inspect:"angle"` // circle tracks only
	Velocity  float64 `inspect:"bar,max:8,fmt:%.2f"`
	Intensity float64 `inspect:"bar,max:1,name:Glow"`
	Position  string
	OnCircle  bool `inspect:"skip"`
}

// TrackView is the inspected state of a track.
type TrackView struct {
	Kind     components.TrackKind
	Origin   string
	Length   float64 `inspect:"label,fmt:%.3f"`
	Radius   float64 `inspect:"label,fmt:%.3f"`
	Attract  bool
	Return   bool
	Fixed    bool
	FixAngle float64 `inspect:"angle,name:Fix"`
}

// NewFireflyView captures f.
func NewFireflyView(f *components.Firefly, tracks []components.Track) FireflyView {
	tr := &tracks[f.Track]
	p := f.Position(tracks)
	v := FireflyView{
		Track:     f.Track,
		Phase:     f.Phase,
		Velocity:  f.Velocity,
		Intensity: min(f.Intensity(), 1),
		Position:  fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y),
		OnCircle:  tr.Kind == components.TrackCircle,
	}
	if v.OnCircle {
		v.Angle = f.Phase / tr.Radius
	}
	return v
}

// NewTrackView captures tr.
func NewTrackView(tr *components.Track) TrackView {
	return TrackView{
		Kind:     tr.Kind,
		Origin:   fmt.Sprintf("(%.2f, %.2f)", tr.Origin.X, tr.Origin.Y),
		Length:   tr.Length,
		Radius:   tr.Radius,
		Attract:  tr.Flags.Has(components.FlagAttract),
		Return:   tr.Flags.Has(components.FlagReturn),
		Fixed:    tr.Flags.Has(components.FlagFixed),
		FixAngle: tr.FixAngle,
	}
}

// Fields returns the panel rows for a pick, with the header title.
// Rows that do not apply to the object's track kind are dropped.
func Fields(pick systems.Pick, fireflies []components.Firefly, tracks []components.Track) (string, []Field) {
	switch pick.Kind {
	case systems.PickFirefly:
		view := NewFireflyView(&fireflies[pick.Index], tracks)
		fields := ExtractFields(view)
		if !view.OnCircle {
			fields = dropField(fields, "Angle")
		}
		return fmt.Sprintf("FIREFLY %d", pick.Index), fields
	case systems.PickTrack:
		tr := &tracks[pick.Index]
		fields := ExtractFields(NewTrackView(tr))
		if tr.Kind != components.TrackCircle {
			fields = dropField(fields, "Radius")
			fields = dropField(fields, "Fix")
		}
		return fmt.Sprintf("TRACK %d", pick.Index), fields
	}
	return "", nil
}

func dropField(fields []Field, name string) []Field {
	out := fields[:0]
	for _, f := range fields {
		if f.Name != name {
			out = append(out, f)
		}
	}
	return out
}

// Inspector draws the panel for the picked object.
type Inspector struct {
	cam          *camera.Camera
	panelX       int32
	panelY       int32
	screenHeight int32
	visible      bool
}

// NewInspector creates an inspector anchored to the left edge below the HUD.
func NewInspector(cam *camera.Camera, screenHeight int32) *Inspector {
	return &Inspector{cam: cam, panelX: 10, panelY: 80, screenHeight: screenHeight, visible: true}
}

// Toggle switches the panel on or off.
func (ins *Inspector) Toggle() { ins.visible = !ins.visible }

// Resize adapts the panel to a new screen height.
func (ins *Inspector) Resize(screenHeight int32) { ins.screenHeight = screenHeight }

// Draw renders the panel and a highlight for pick. PickNone draws nothing.
func (ins *Inspector) Draw(pick systems.Pick, fireflies []components.Firefly, tracks []components.Track) {
	if !ins.visible || pick.Kind == systems.PickNone {
		return
	}
	title, fields := Fields(pick, fireflies, tracks)
	ins.drawHighlight(pick, fireflies, tracks)

	height := int32(HeaderHeight + 2*PanelPadding)
	for _, f := range fields {
		height += FieldHeight(f)
	}
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(title, ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, f := range fields {
		y += DrawField(x, y, f)
	}
}

// drawHighlight marks the inspected object on the board.
func (ins *Inspector) drawHighlight(pick systems.Pick, fireflies []components.Firefly, tracks []components.Track) {
	switch pick.Kind {
	case systems.PickFirefly:
		x, y := ins.cam.WorldToScreen(fireflies[pick.Index].Position(tracks))
		rl.DrawCircleLines(int32(x), int32(y), 10, ColorHighlight)
	case systems.PickTrack:
		x, y := ins.cam.WorldToScreen(tracks[pick.Index].Origin)
		rl.DrawLineEx(rl.Vector2{X: x - 6, Y: y}, rl.Vector2{X: x + 6, Y: y}, 1, ColorHighlight)
		rl.DrawLineEx(rl.Vector2{X: x, Y: y - 6}, rl.Vector2{X: x, Y: y + 6}, 1, ColorHighlight)
	}
}
