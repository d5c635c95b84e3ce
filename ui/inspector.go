package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flip/fluid"
)

// CellInfo describes the grid cell under the cursor.
type CellInfo struct {
	I, J     int
	Type     fluid.CellType
	Pressure float64
	// Cell-centred velocity, averaged from the faces
	U, V float64
	// Particle density relative to the rest density (raw count if unknown)
	Density float64

	// Nearest particle, if one was found
	HasParticle bool
	Particle    int
	PX, PY      float64
	PVX, PVY    float64
}

// ProbeCell samples the solver at world position (x, y). ok is false when
// the point lies outside the grid.
func ProbeCell(f *fluid.FlipFluid, x, y float64) (info CellInfo, ok bool) {
	g := f.Grid
	if x < 0 || y < 0 || math.IsNaN(x) || math.IsNaN(y) {
		return info, false
	}
	i := int(x * g.InvSpacing)
	j := int(y * g.InvSpacing)
	if i >= g.NumX || j >= g.NumY {
		return info, false
	}

	info.I, info.J = i, j
	c := g.Index(i, j)
	info.Type = g.CellType[c]
	info.Pressure = g.P.Data[c]

	u := g.U.Data[c]
	if i+1 < g.NumX {
		u = 0.5 * (u + g.U.Data[c+g.NumY])
	}
	v := g.V.Data[c]
	if j+1 < g.NumY {
		v = 0.5 * (v + g.V.Data[c+1])
	}
	info.U, info.V = u, v

	info.Density = f.CellDensity.Data[c]
	if rest, known := f.RestDensity(); known && rest > 0 {
		info.Density /= rest
	}
	return info, true
}

// AttachParticle fills the nearest-particle fields from particle p.
func (c *CellInfo) AttachParticle(f *fluid.FlipFluid, p int) {
	ps := f.Particles
	if p < 0 || p >= ps.Num {
		return
	}
	c.HasParticle = true
	c.Particle = p
	c.PX, c.PY = ps.PosX[p], ps.PosY[p]
	c.PVX, c.PVY = ps.VelX[p], ps.VelY[p]
}

// Inspector renders the cell inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given cell.
func (ins *Inspector) Draw(info CellInfo) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	panelHeight := int32(130)
	if info.HasParticle {
		panelHeight += 70
	}
	r.DrawPanel(ins.x, ins.y, ins.width, panelHeight)

	x := ins.x + padding
	y := ins.y + padding

	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Cell (%d, %d)", info.I, info.J))
	y = r.DrawLabelValue(x, y, "Type", info.Type.String())
	y = r.DrawLabelValue(x, y, "Pressure", fmt.Sprintf("%.1f", info.Pressure))
	y = r.DrawLabelValue(x, y, "Velocity", fmt.Sprintf("(%.2f, %.2f)", info.U, info.V))
	y = r.DrawBar(x, y, "Density", float32(info.Density), 2, contentWidth)

	if info.HasParticle {
		y += 4
		y = r.DrawSectionHeader(x, y, fmt.Sprintf("Particle #%d", info.Particle))
		y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("(%.3f, %.3f)", info.PX, info.PY))
		y = r.DrawLabelValue(x, y, "Velocity", fmt.Sprintf("(%.2f, %.2f)", info.PVX, info.PVY))
	}

	return y
}
