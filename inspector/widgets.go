package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 220, G: 220, B: 60, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const (
	labelWidth = 80
	angleSize  = 40
)

// DrawLabel renders a text value and returns the row height.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawText(FormatValue(value, options["fmt"]), x+labelWidth, y, 14, ColorText)
	return 20
}

// DrawBar renders a horizontal bar scaled by the max option. The magnitude
// is shown, so negative values fill like positive ones.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := float32(math.Abs(float64(value))) / GetMax(options)
	ratio = min(max(ratio, 0), 1)

	const barWidth, barHeight = 120, 14
	rl.DrawText(name, x, y, 14, ColorTextDim)
	barX := x + labelWidth
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	rl.DrawRectangle(barX, y, int32(barWidth*ratio), barHeight, ColorBarFill)
	rl.DrawText(FormatValue(value, options["fmt"]), barX+barWidth+6, y, 14, ColorText)
	return 20
}

// DrawAngle renders a compass-style angle indicator. Board y grows
// downward like the screen, so the needle needs no flip.
func DrawAngle(x, y int32, name string, radians float32) int32 {
	centerX := x + labelWidth + angleSize/2
	centerY := y + angleSize/2

	rl.DrawText(name, x, centerY-7, 14, ColorTextDim)
	rl.DrawCircle(centerX, centerY, angleSize/2, ColorAngleBg)
	rl.DrawCircleLines(centerX, centerY, angleSize/2, ColorTextDim)

	needle := float32(angleSize/2 - 4)
	end := rl.Vector2{
		X: float32(centerX) + needle*float32(math.Cos(float64(radians))),
		Y: float32(centerY) + needle*float32(math.Sin(float64(radians))),
	}
	rl.DrawLineEx(rl.Vector2{X: float32(centerX), Y: float32(centerY)}, end, 2, ColorAngleNeedle)

	degrees := radians * 180 / math.Pi
	rl.DrawText(fmt.Sprintf("%.0f deg", degrees), centerX+angleSize/2+6, centerY-7, 14, ColorTextDim)
	return angleSize + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	const size = 14
	rl.DrawText(name, x, y, 14, ColorTextDim)

	color, text := ColorBoolOff, "no"
	if value {
		color, text = ColorBoolOn, "yes"
	}
	rl.DrawRectangle(x+labelWidth, y, size, size, color)
	rl.DrawText(text, x+labelWidth+size+5, y, 14, color)
	return 18
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawAngle(x, y, field.Name, v)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// FieldHeight returns the row height DrawField uses for field.
func FieldHeight(field Field) int32 {
	switch field.Widget {
	case WidgetAngle:
		if _, ok := GetFloatValue(field.Value); ok {
			return angleSize + 4
		}
	case WidgetBool:
		if _, ok := field.Value.(bool); ok {
			return 18
		}
	}
	return 20
}
