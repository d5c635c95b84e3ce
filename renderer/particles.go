package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flip/camera"
	"github.com/pthm-cable/flip/fluid"
)

// ParticleRenderer renders fluid particles as discs.
type ParticleRenderer struct {
	// MinPixelRadius keeps particles visible when zoomed out.
	MinPixelRadius float32
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{MinPixelRadius: 1}
}

// Draw renders all particles of s.
func (r *ParticleRenderer) Draw(s *fluid.Snapshot, cam *camera.Camera) {
	radius := float32(s.ParticleRadius)
	size := max(radius*cam.PixelsPerMetre(), r.MinPixelRadius)

	for i := 0; i < s.NumParticles(); i++ {
		x, y := float32(s.PosX[i]), float32(s.PosY[i])
		if !cam.IsVisible(x, y, radius) {
			continue
		}
		sx, sy := cam.WorldToScreen(x, y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, ToColor(s.Color[i], 255))
	}
}

// DrawVelocities draws a short line along every stride-th particle velocity.
// scale is seconds of travel shown.
func DrawVelocities(s *fluid.Snapshot, cam *camera.Camera, stride int, scale float32) {
	if stride < 1 {
		stride = 1
	}
	color := rl.Color{R: 255, G: 220, B: 120, A: 160}
	for i := 0; i < s.NumParticles(); i += stride {
		x, y := float32(s.PosX[i]), float32(s.PosY[i])
		if !cam.IsVisible(x, y, 0) {
			continue
		}
		sx, sy := cam.WorldToScreen(x, y)
		ex, ey := cam.WorldToScreen(x+float32(s.VelX[i])*scale, y+float32(s.VelY[i])*scale)
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: ex, Y: ey}, color)
	}
}

// DrawObstacles draws obstacle discs, highlighting the one at index active.
func DrawObstacles(obstacles []fluid.Obstacle, cam *camera.Camera, active int) {
	ppm := cam.PixelsPerMetre()
	for i, o := range obstacles {
		sx, sy := cam.WorldToScreen(float32(o.X), float32(o.Y))
		radius := float32(o.Radius) * ppm
		color := rl.Color{R: 255, G: 0, B: 0, A: 255}
		if i == active {
			color = rl.Orange
		}
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, color)
		rl.DrawCircleLines(int32(sx), int32(sy), radius, rl.Black)
	}
}
