// Package renderer draws solver state with raylib through a camera.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flip/camera"
	"github.com/pthm-cable/flip/fluid"
)

// ToColor converts a solver colour in [0,1] to a raylib colour.
func ToColor(c fluid.RGB, alpha uint8) rl.Color {
	return rl.Color{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: alpha}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// GridRenderer draws per-cell colours.
type GridRenderer struct {
	// SkipBlack leaves black (air) cells undrawn so the background shows.
	SkipBlack bool
}

// NewGridRenderer creates a grid renderer.
func NewGridRenderer() *GridRenderer {
	return &GridRenderer{SkipBlack: true}
}

// Draw fills each cell of a numX by numY grid with spacing h. colors is
// indexed i*numY + j.
func (r *GridRenderer) Draw(numX, numY int, h float64, colors []fluid.RGB, cam *camera.Camera) {
	size := float32(h) * cam.PixelsPerMetre()
	// One extra pixel hides seams between rectangles.
	pad := float32(1)
	hf := float32(h)

	for i := 0; i < numX; i++ {
		for j := 0; j < numY; j++ {
			c := colors[i*numY+j]
			if r.SkipBlack && c.R == 0 && c.G == 0 && c.B == 0 {
				continue
			}
			cx := (float32(i) + 0.5) * hf
			cy := (float32(j) + 0.5) * hf
			if !cam.IsVisible(cx, cy, hf) {
				continue
			}
			sx, sy := cam.WorldToScreen(float32(i)*hf, float32(j+1)*hf)
			rl.DrawRectangleRec(rl.Rectangle{X: sx, Y: sy, Width: size + pad, Height: size + pad}, ToColor(c, 255))
		}
	}
}

// DrawTankOutline draws the tank boundary.
func DrawTankOutline(width, height float32, cam *camera.Camera) {
	x0, y0 := cam.WorldToScreen(0, height)
	x1, y1 := cam.WorldToScreen(width, 0)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1, rl.DarkGray)
}
