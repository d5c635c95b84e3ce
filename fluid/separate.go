package fluid

import "math"

const colorDiffusionCoeff = 0.001

// PushParticlesApart rebuilds the spatial hash and resolves overlaps between
// particles closer than two radii. Each overlapping pair is moved apart
// symmetrically by half the overlap along the line joining them, and their
// colours drift toward each other.
func (f *FlipFluid) PushParticlesApart(numIters int) {
	ps := f.Particles
	h := f.hash

	h.Build(ps.PosX, ps.PosY, ps.Num)

	minDist := 2.0 * ps.Radius
	minDist2 := minDist * minDist

	for iter := 0; iter < numIters; iter++ {
		for i := 0; i < ps.Num; i++ {
			px := ps.PosX[i]
			py := ps.PosY[i]

			x0, x1 := h.neighbourRange(px, h.NumX)
			y0, y1 := h.neighbourRange(py, h.NumY)

			for xi := x0; xi <= x1; xi++ {
				for yi := y0; yi <= y1; yi++ {
					for _, id := range h.Cell(xi*h.NumY + yi) {
						if id == i {
							continue
						}
						dx := ps.PosX[id] - px
						dy := ps.PosY[id] - py
						d2 := dx*dx + dy*dy
						if d2 > minDist2 || d2 == 0.0 {
							continue
						}
						d := math.Sqrt(d2)
						s := 0.5 * (minDist - d) / d
						dx *= s
						dy *= s
						ps.PosX[i] -= dx
						ps.PosY[i] -= dy
						ps.PosX[id] += dx
						ps.PosY[id] += dy

						ci := &ps.Color[i]
						cj := &ps.Color[id]
						ci.R, cj.R = diffuse(ci.R, cj.R)
						ci.G, cj.G = diffuse(ci.G, cj.G)
						ci.B, cj.B = diffuse(ci.B, cj.B)
					}
				}
			}
		}
	}
}

func diffuse(a, b float64) (float64, float64) {
	c := (a + b) * 0.5
	return a + (c-a)*colorDiffusionCoeff, b + (c-b)*colorDiffusionCoeff
}
