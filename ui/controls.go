package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flip/fluid"
)

// ControlsPanel renders the left-side panel with overlay toggles and the
// solver sliders.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether the screen point lies on the panel, so clicks on
// it are not forwarded to the tank.
func (c *ControlsPanel) Contains(x, y float32) bool {
	return c.visible && x >= float32(c.x) && x < float32(c.x+c.width) && y >= float32(c.y) && y < float32(c.y+c.height())
}

func (c *ControlsPanel) height() int32 {
	return 470
}

// Draw renders the panel and applies slider changes to scene. It returns true
// if any solver parameter changed.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, scene *fluid.Scene) bool {
	if !c.visible {
		return false
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := c.width - padding*2

	r.DrawPanel(c.x, c.y, c.width, c.height())
	x := c.x + padding
	y := c.y + padding

	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += lineHeight + 4
	for _, category := range overlays.Categories() {
		y = r.DrawSectionHeader(x, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(x, y, desc, overlays.IsEnabled(desc.ID), inner)
			y += lineHeight
		}
		y += 4
	}

	y += 6
	rl.DrawText("Solver", x, y, 16, rl.White)
	y += lineHeight + 4

	before := *scene
	var v float32

	v, y = r.DrawSlider(x, y, "FLIP ratio", "%.2f", float32(scene.FlipRatio), 0, 1, inner)
	scene.FlipRatio = float64(v)
	v, y = r.DrawSlider(x, y, "Over-relaxation", "%.2f", float32(scene.OverRelaxation), 1, 1.99, inner)
	scene.OverRelaxation = float64(v)
	v, y = r.DrawSlider(x, y, "Pressure iters", "%.0f", float32(scene.NumPressureIters), 1, 200, inner)
	scene.NumPressureIters = int(v + 0.5)
	v, y = r.DrawSlider(x, y, "Particle iters", "%.0f", float32(scene.NumParticleIters), 0, 10, inner)
	scene.NumParticleIters = int(v + 0.5)
	v, y = r.DrawSlider(x, y, "Gravity", "%.2f", float32(scene.Gravity), -20, 0, inner)
	scene.Gravity = float64(v)

	scene.CompensateDrift, y = r.DrawCheckBox(x, y, "Compensate drift", scene.CompensateDrift)
	scene.SeparateParticles, _ = r.DrawCheckBox(x, y, "Separate particles", scene.SeparateParticles)

	return *scene != before
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "fluid":
		return "Fluid"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
