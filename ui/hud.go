package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireflies/systems"
	"github.com/pthm-cable/fireflies/telemetry"
)

// Speed button indices, in display order.
const (
	SpeedButtonSlow = iota
	SpeedButtonNormal
	SpeedButtonFast
)

var speedLabels = [...]string{"Slow", "Normal", "Fast"}

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Tick        int64
	Speed       int // SpeedButton index
	FPS         int32
	Running     bool
	Cleared     bool
	Stats       telemetry.RunStats
	Bellflowers []systems.BellflowerView

	ScreenWidth  int32
	ScreenHeight int32
}

// HUDActions reports the buttons clicked this frame.
type HUDActions struct {
	ToggleRun bool
	Speed     int // SpeedButton index, or -1 when no speed button was clicked
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD and returns the actions the user took.
func (h *HUD) Draw(data HUDData) HUDActions {
	actions := HUDActions{Speed: -1}

	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Steps: %d | FPS: %d", data.Tick, data.Stats.Steps, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	status, color := "EDITING", rl.Yellow
	if data.Running {
		status, color = "RUNNING", rl.Green
	}
	if data.Cleared {
		status, color = status+" | CLEARED", rl.SkyBlue
	}
	rl.DrawText(status, 10, 55, 16, color)

	// Run / stop and speed buttons along the top right
	x := float32(data.ScreenWidth) - 10
	label := "Run"
	if data.Running {
		label = "Stop"
	}
	x -= 80
	if gui.Button(rl.Rectangle{X: x, Y: 10, Width: 80, Height: 28}, label) {
		actions.ToggleRun = true
	}
	for i := len(speedLabels) - 1; i >= 0; i-- {
		x -= 70
		text := speedLabels[i]
		if i == data.Speed {
			text = "[" + text + "]"
		}
		if gui.Button(rl.Rectangle{X: x, Y: 10, Width: 66, Height: 28}, text) {
			actions.Speed = i
		}
	}

	h.drawRunPanel(data)
	return actions
}

// drawRunPanel shows the run counters and each bellflower's progress.
func (h *HUD) drawRunPanel(data HUDData) {
	r := h.renderer
	const width = 220
	height := int32(4+len(data.Bellflowers))*r.Theme.LineHeight + 3*r.Theme.Padding
	x := data.ScreenWidth - width - 10
	y := int32(48)
	r.DrawPanel(x, y, width, height)

	x += r.Theme.Padding
	y += r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Run")
	y = r.DrawLabelValue(x, y, "Transfers", fmt.Sprintf("%d", data.Stats.Transfers))
	y = r.DrawLabelValue(x, y, "Bounces", fmt.Sprintf("%d", data.Stats.Bounces))
	y = r.DrawLabelValue(x, y, "Chimes", fmt.Sprintf("%d", data.Stats.Chimes))
	for i, b := range data.Bellflowers {
		label := fmt.Sprintf("Bell %d (%d)", i, b.Count)
		var v float32
		switch {
		case b.Count <= 0:
			v = 1
		case b.Delayed:
			v = float32(b.Charge)
		case b.On:
			v = 1
		}
		y = r.DrawBar(x, y, label, v, width-2*r.Theme.Padding)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel shows how step time splits across the step phases.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
	visible  bool
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel() *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		registry: systems.NewSystemRegistry(),
	}
}

// Toggle switches panel visibility.
func (p *PerfPanel) Toggle() { p.visible = !p.visible }

// Visible reports whether the panel is shown.
func (p *PerfPanel) Visible() bool { return p.visible }

// Draw renders the panel at the bottom left corner.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, screenHeight int32) {
	if !p.visible {
		return
	}
	r := p.renderer
	const width = 260
	ids := p.registry.IDs()
	height := int32(3+len(ids))*r.Theme.LineHeight + 2*r.Theme.Padding + 2*int32(len(ids))
	x := int32(10)
	y := screenHeight - height - 35
	r.DrawPanel(x, y, width, height)

	x += r.Theme.Padding
	y += r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Performance")
	y = r.DrawLabelValue(x, y, "Step", fmt.Sprintf("%v (max %v)", stats.AvgStepDuration, stats.MaxStepDuration))
	y = r.DrawLabelValue(x, y, "Steps/s", fmt.Sprintf("%.0f", stats.StepsPerSecond))
	for _, id := range ids {
		y = r.DrawBar(x, y, p.registry.GetName(id), float32(stats.PhasePct[id]/100), width-2*r.Theme.Padding)
	}
}
