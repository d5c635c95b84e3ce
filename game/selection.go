package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flip/bvh"
	"github.com/pthm-cable/flip/ui"
)

// updateHover probes the cell under the cursor and finds the particle there.
func (g *Game) updateHover() {
	mouse := rl.GetMousePosition()
	if g.controls.Contains(mouse.X, mouse.Y) {
		g.hasHover = false
		return
	}
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	g.probe(float64(wx), float64(wy))
}

// probe fills the hover info for tank position (x, y).
func (g *Game) probe(x, y float64) {
	info, ok := ui.ProbeCell(g.fluid, x, y)
	g.hasHover = ok
	if !ok {
		return
	}
	if p, found := g.nearestParticle(x, y); found {
		info.AttachParticle(g.fluid, p)
	}
	g.hover = info
}

// nearestParticle returns the particle index closest to (x, y) in the last
// hierarchy. A downward ray hits the particle disc under the point; failing
// that, the nearest centre within one cell is taken.
func (g *Game) nearestParticle(x, y float64) (int, bool) {
	t := g.tree
	if t == nil || len(t.Nodes) == 0 {
		return -1, false
	}

	ray := bvh.Ray{Origin: bvh.Vec3{X: x, Y: y, Z: 1}, Dir: bvh.Vec3{Z: -1}}
	if hit, ok := t.IntersectRay(ray, 2); ok {
		return t.Particles[hit.Index], true
	}

	c := bvh.Vec3{X: x, Y: y}
	g.nearby = t.QueryRadius(c, g.fluid.Grid.H, g.nearby[:0])
	best, bestD := -1, 0.0
	for _, k := range g.nearby {
		d := t.Centers[k].Sub(c)
		if d2 := d.Dot(d); best < 0 || d2 < bestD {
			best, bestD = k, d2
		}
	}
	if best < 0 {
		return -1, false
	}
	return t.Particles[best], true
}
