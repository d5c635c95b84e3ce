package fluid

import "math"

// UpdateParticleDensity splats one unit of mass per particle onto cell
// centres. The first call that finds fluid cells also fixes the rest density.
func (f *FlipFluid) UpdateParticleDensity() {
	g := f.Grid
	ps := f.Particles
	n := g.NumY
	h := g.H
	h1 := g.InvSpacing
	h2 := 0.5 * h
	d := f.CellDensity.Data

	f.CellDensity.Fill(0)

	for i := 0; i < ps.Num; i++ {
		x := clampFloat(ps.PosX[i], h, float64(g.NumX-1)*h)
		y := clampFloat(ps.PosY[i], h, float64(g.NumY-1)*h)

		x0 := int(math.Floor((x - h2) * h1))
		tx := ((x - h2) - float64(x0)*h) * h1
		x1 := min(x0+1, g.NumX-2)

		y0 := int(math.Floor((y - h2) * h1))
		ty := ((y - h2) - float64(y0)*h) * h1
		y1 := min(y0+1, g.NumY-2)

		sx := 1.0 - tx
		sy := 1.0 - ty

		d[x0*n+y0] += sx * sy
		d[x1*n+y0] += tx * sy
		d[x1*n+y1] += tx * ty
		d[x0*n+y1] += sx * ty
	}

	if !f.hasRest {
		f.computeRestDensity()
	}
}

// computeRestDensity records the mean density over fluid cells. It leaves the
// rest density unset when there are no fluid cells.
func (f *FlipFluid) computeRestDensity() {
	sum := 0.0
	numFluid := 0
	for i, ct := range f.Grid.CellType {
		if ct == FluidCell {
			sum += f.CellDensity.Data[i]
			numFluid++
		}
	}
	if numFluid > 0 {
		f.restDensity = sum / float64(numFluid)
		f.hasRest = true
	}
}

// SolveIncompressibility projects the grid velocity toward zero divergence
// over fluid cells with Gauss-Seidel over-relaxation. With compensateDrift,
// cells denser than the rest density get extra outflow. P accumulates a
// pressure estimate for display; it does not feed back into the solve.
func (f *FlipFluid) SolveIncompressibility(numIters int, dt, overRelaxation float64, compensateDrift bool) {
	g := f.Grid
	g.P.Fill(0)
	g.PrevU.CopyFrom(g.U)
	g.PrevV.CopyFrom(g.V)

	n := g.NumY
	cp := f.Density * g.H / dt
	useRest := compensateDrift && f.hasRest && f.restDensity > 0.0

	u := g.U.Data
	v := g.V.Data
	s := g.S.Data
	p := g.P.Data

	for iter := 0; iter < numIters; iter++ {
		for i := 1; i < g.NumX-1; i++ {
			for j := 1; j < g.NumY-1; j++ {
				center := i*n + j
				if g.CellType[center] != FluidCell {
					continue
				}
				left := center - n
				right := center + n
				bottom := center - 1
				top := center + 1

				sx0 := s[left]
				sx1 := s[right]
				sy0 := s[bottom]
				sy1 := s[top]
				sum := sx0 + sx1 + sy0 + sy1
				if sum == 0.0 {
					continue
				}

				div := u[right] - u[center] + v[top] - v[center]

				if useRest {
					const k = 1.0
					compression := f.CellDensity.Data[center] - f.restDensity
					if compression > 0.0 {
						div -= k * compression
					}
				}

				pc := -div / sum
				pc *= overRelaxation
				p[center] += cp * pc

				u[center] -= sx0 * pc
				u[right] += sx1 * pc
				v[center] -= sy0 * pc
				v[top] += sy1 * pc
			}
		}
	}
}
