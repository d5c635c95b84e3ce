package fluid

import "math"

// UpdateParticleColors fades every particle toward blue and flags particles
// in sparse cells with a pale tint.
func (f *FlipFluid) UpdateParticleColors() {
	g := f.Grid
	ps := f.Particles
	const step = 0.01

	for i := 0; i < ps.Num; i++ {
		c := &ps.Color[i]
		c.R = clampFloat(c.R-step, 0.0, 1.0)
		c.G = clampFloat(c.G-step, 0.0, 1.0)
		c.B = clampFloat(c.B+step, 0.0, 1.0)

		xi := g.cellCoord(ps.PosX[i], 1, g.NumX-1)
		yi := g.cellCoord(ps.PosY[i], 1, g.NumY-1)
		cellNr := xi*g.NumY + yi

		if f.hasRest && f.restDensity > 0.0 {
			if f.CellDensity.Data[cellNr]/f.restDensity < 0.7 {
				*c = RGB{R: 0.8, G: 0.8, B: 1.0}
			}
		}
	}
}

// UpdateCellColors paints solid cells grey, fluid cells by relative density
// and air cells black.
func (f *FlipFluid) UpdateCellColors() {
	g := f.Grid
	for i := range g.CellColor {
		switch g.CellType[i] {
		case SolidCell:
			g.CellColor[i] = RGB{R: 0.5, G: 0.5, B: 0.5}
		case FluidCell:
			d := f.CellDensity.Data[i]
			if f.hasRest && f.restDensity > 0.0 {
				d /= f.restDensity
			}
			g.CellColor[i] = SciColor(d, 0.0, 2.0)
		default:
			g.CellColor[i] = RGB{}
		}
	}
}

// SciColor maps val in [minVal, maxVal] onto a blue-cyan-green-yellow-red
// ramp made of four linear bands.
func SciColor(val, minVal, maxVal float64) RGB {
	val = math.Min(math.Max(val, minVal), maxVal-0.0001)
	d := maxVal - minVal
	if d == 0.0 {
		val = 0.5
	} else {
		val = (val - minVal) / d
	}

	const m = 0.25
	num := int(math.Floor(val / m))
	s := (val - float64(num)*m) / m

	switch num {
	case 0:
		return RGB{R: 0, G: s, B: 1}
	case 1:
		return RGB{R: 0, G: 1, B: 1 - s}
	case 2:
		return RGB{R: s, G: 1, B: 0}
	case 3:
		return RGB{R: 1, G: 1 - s, B: 0}
	default:
		return RGB{}
	}
}
