package fluid

import "math"

// faceComponent describes one staggered velocity component: where its samples
// sit relative to the cell corner and which neighbour shares the face.
type faceComponent struct {
	field  Field
	prev   Field
	weight Field
	vel    []float64

	dx, dy float64 // sample offset from the cell's lower-left corner
	offset int     // flat index step to the cell on the other side of the face
}

func (f *FlipFluid) components() [2]faceComponent {
	g := f.Grid
	ps := f.Particles
	half := 0.5 * g.H
	return [2]faceComponent{
		{field: g.U, prev: g.PrevU, weight: g.DU, vel: ps.VelX, dx: 0, dy: half, offset: g.NumY},
		{field: g.V, prev: g.PrevV, weight: g.DV, vel: ps.VelY, dx: half, dy: 0, offset: 1},
	}
}

// TransferVelocities moves velocity between particles and grid. With toGrid
// set it snapshots the grid, classifies cells and splats particle velocity
// with bilinear weights. Otherwise it blends the interpolated grid velocity
// (PIC) with the particle velocity plus the grid change (FLIP) by flipRatio.
func (f *FlipFluid) TransferVelocities(toGrid bool, flipRatio float64) {
	g := f.Grid

	if toGrid {
		g.PrevU.CopyFrom(g.U)
		g.PrevV.CopyFrom(g.V)
		g.DU.Fill(0)
		g.DV.Fill(0)
		g.U.Fill(0)
		g.V.Fill(0)

		g.classifyCells()
		ps := f.Particles
		for i := 0; i < ps.Num; i++ {
			xi := g.cellCoord(ps.PosX[i], 0, g.NumX-1)
			yi := g.cellCoord(ps.PosY[i], 0, g.NumY-1)
			cellNr := xi*g.NumY + yi
			if g.CellType[cellNr] == AirCell {
				g.CellType[cellNr] = FluidCell
			}
		}
	}

	for _, c := range f.components() {
		f.transferComponent(c, toGrid, flipRatio)
	}

	if toGrid {
		for _, c := range f.components() {
			for i, d := range c.weight.Data {
				if d > 0.0 {
					c.field.Data[i] /= d
				}
			}
		}
		g.restoreSolidFaces()
	}
}

func (f *FlipFluid) transferComponent(c faceComponent, toGrid bool, flipRatio float64) {
	g := f.Grid
	ps := f.Particles
	n := g.NumY
	h := g.H
	h1 := g.InvSpacing

	for i := 0; i < ps.Num; i++ {
		x := clampFloat(ps.PosX[i], h, float64(g.NumX-1)*h)
		y := clampFloat(ps.PosY[i], h, float64(g.NumY-1)*h)

		x0 := min(int(math.Floor((x-c.dx)*h1)), g.NumX-2)
		tx := ((x - c.dx) - float64(x0)*h) * h1
		x1 := min(x0+1, g.NumX-2)

		y0 := min(int(math.Floor((y-c.dy)*h1)), g.NumY-2)
		ty := ((y - c.dy) - float64(y0)*h) * h1
		y1 := min(y0+1, g.NumY-2)

		sx := 1.0 - tx
		sy := 1.0 - ty

		d0 := sx * sy
		d1 := tx * sy
		d2 := tx * ty
		d3 := sx * ty

		nr0 := x0*n + y0
		nr1 := x1*n + y0
		nr2 := x1*n + y1
		nr3 := x0*n + y1

		if toGrid {
			pv := c.vel[i]
			c.field.Data[nr0] += pv * d0
			c.weight.Data[nr0] += d0
			c.field.Data[nr1] += pv * d1
			c.weight.Data[nr1] += d1
			c.field.Data[nr2] += pv * d2
			c.weight.Data[nr2] += d2
			c.field.Data[nr3] += pv * d3
			c.weight.Data[nr3] += d3
			continue
		}

		valid0 := f.faceValid(nr0, c.offset)
		valid1 := f.faceValid(nr1, c.offset)
		valid2 := f.faceValid(nr2, c.offset)
		valid3 := f.faceValid(nr3, c.offset)

		d := valid0*d0 + valid1*d1 + valid2*d2 + valid3*d3
		if d <= 0.0 {
			continue
		}

		fd := c.field.Data
		pd := c.prev.Data
		picV := (valid0*d0*fd[nr0] + valid1*d1*fd[nr1] + valid2*d2*fd[nr2] + valid3*d3*fd[nr3]) / d
		corr := (valid0*d0*(fd[nr0]-pd[nr0]) + valid1*d1*(fd[nr1]-pd[nr1]) +
			valid2*d2*(fd[nr2]-pd[nr2]) + valid3*d3*(fd[nr3]-pd[nr3])) / d
		flipV := c.vel[i] + corr

		c.vel[i] = (1.0-flipRatio)*picV + flipRatio*flipV
	}
}

// faceValid reports 1 when either cell sharing the face at nr is not air.
func (f *FlipFluid) faceValid(nr, offset int) float64 {
	ct := f.Grid.CellType
	if ct[nr] != AirCell || ct[nr-offset] != AirCell {
		return 1.0
	}
	return 0.0
}

func clampFloat(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
