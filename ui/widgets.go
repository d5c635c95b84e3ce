package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a bar for value in [0, hi], coloured green near 1 and red
// when far from it. Used for relative density.
func (r *Renderer) DrawBar(x, y int32, label string, value, hi float32, width int32) int32 {
	ratio := float32(0)
	if hi > 0 {
		ratio = min(max(value/hi, 0), 1)
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	barColor := r.Theme.BarFillHigh
	if value < 0.5 || value > 1.5 {
		barColor = r.Theme.BarFillLow
	} else if value < 0.8 || value > 1.2 {
		barColor = r.Theme.BarFillMedium
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, barColor)

	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawSlider draws a labelled raygui slider and returns the new value and Y
// position.
func (r *Renderer) DrawSlider(x, y int32, label, format string, value, lo, hi float32, width int32) (float32, int32) {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width - 60), Height: 16}
	value = gui.SliderBar(bounds, "", "", value, lo, hi)
	rl.DrawText(fmt.Sprintf(format, value), x+width-55, y+2, r.Theme.FontSize, r.Theme.ValueColor)
	return value, y + 22
}

// DrawCheckBox draws a raygui check box and returns the new state and Y
// position.
func (r *Renderer) DrawCheckBox(x, y int32, label string, checked bool) (bool, int32) {
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: 14, Height: 14}
	checked = gui.CheckBox(bounds, label, checked)
	return checked, y + 20
}
