// Package terminal draws the tank as coloured characters with tcell.
package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/flip/fluid"
)

// Density ramp from sparse to packed.
var ramp = []rune(" .:-=+*#%@")

const (
	solidGlyph    = '█'
	obstacleGlyph = 'O'
)

var (
	solidStyle    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(128, 128, 128))
	obstacleStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// Renderer maps tank snapshots onto a terminal screen. The last row is a
// status line.
type Renderer struct {
	screen tcell.Screen

	// Per terminal cell accumulation buffers
	count   []int
	r, g, b []float64
}

// NewRenderer creates a renderer for an initialised screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Layout returns the drawable area, excluding the status line.
func (r *Renderer) Layout() (cols, rows int) {
	w, h := r.screen.Size()
	return w, max(h-1, 0)
}

// Draw renders s and the status text, then shows the screen.
func (r *Renderer) Draw(s *fluid.Snapshot, status string) {
	r.screen.Clear()
	cols, rows := r.Layout()
	if cols > 0 && rows > 0 && s.NumX > 0 && s.NumY > 0 {
		r.drawCells(s, cols, rows)
		r.drawParticles(s, cols, rows)
		r.drawObstacles(s, cols, rows)
	}
	r.drawStatus(status, cols, rows)
	r.screen.Show()
}

// cellAt returns the grid cell under the centre of terminal cell (cx, cy).
// Terminal rows grow downward, grid rows grow upward.
func cellAt(s *fluid.Snapshot, cx, cy, cols, rows int) int {
	i := (2*cx + 1) * s.NumX / (2 * cols)
	j := s.NumY - 1 - (2*cy+1)*s.NumY/(2*rows)
	return i*s.NumY + j
}

func (r *Renderer) drawCells(s *fluid.Snapshot, cols, rows int) {
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			if s.CellType[cellAt(s, cx, cy, cols, rows)] == fluid.SolidCell {
				r.screen.SetContent(cx, cy, solidGlyph, nil, solidStyle)
			}
		}
	}
}

func (r *Renderer) drawParticles(s *fluid.Snapshot, cols, rows int) {
	n := cols * rows
	if cap(r.count) < n {
		r.count = make([]int, n)
		r.r = make([]float64, n)
		r.g = make([]float64, n)
		r.b = make([]float64, n)
	}
	r.count = r.count[:n]
	r.r, r.g, r.b = r.r[:n], r.g[:n], r.b[:n]
	clear(r.count)
	clear(r.r)
	clear(r.g)
	clear(r.b)

	width := float64(s.NumX) * s.H
	height := float64(s.NumY) * s.H
	for p := 0; p < s.NumParticles(); p++ {
		cx := int(s.PosX[p] / width * float64(cols))
		cy := int((1 - s.PosY[p]/height) * float64(rows))
		if cx < 0 || cx >= cols || cy < 0 || cy >= rows {
			continue
		}
		k := cy*cols + cx
		c := s.Color[p]
		r.count[k]++
		r.r[k] += c.R
		r.g[k] += c.G
		r.b[k] += c.B
	}

	// Capacity of one terminal cell at the rest spacing of 2r.
	perCell := 1.0
	if s.ParticleRadius > 0 {
		d := 2 * s.ParticleRadius
		perCell = max((width/float64(cols))*(height/float64(rows))/(d*d), 1)
	}

	for k, cnt := range r.count {
		if cnt == 0 {
			continue
		}
		level := int(float64(cnt) / perCell * float64(len(ramp)-1))
		level = min(max(level, 1), len(ramp)-1)
		inv := 1 / float64(cnt)
		color := tcell.NewRGBColor(channel(r.r[k]*inv), channel(r.g[k]*inv), channel(r.b[k]*inv))
		r.screen.SetContent(k%cols, k/cols, ramp[level], nil, tcell.StyleDefault.Foreground(color))
	}
}

func (r *Renderer) drawObstacles(s *fluid.Snapshot, cols, rows int) {
	width := float64(s.NumX) * s.H
	height := float64(s.NumY) * s.H
	for _, o := range s.Obstacles {
		for cy := 0; cy < rows; cy++ {
			y := (1 - (float64(cy)+0.5)/float64(rows)) * height
			for cx := 0; cx < cols; cx++ {
				x := (float64(cx) + 0.5) / float64(cols) * width
				dx, dy := x-o.X, y-o.Y
				if dx*dx+dy*dy <= o.Radius*o.Radius {
					r.screen.SetContent(cx, cy, obstacleGlyph, nil, obstacleStyle)
				}
			}
		}
	}
}

func (r *Renderer) drawStatus(status string, cols, row int) {
	x := 0
	for _, ch := range status {
		if x >= cols {
			break
		}
		r.screen.SetContent(x, row, ch, nil, statusStyle)
		x++
	}
	for ; x < cols; x++ {
		r.screen.SetContent(x, row, ' ', nil, statusStyle)
	}
}

func channel(v float64) int32 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	}
	return int32(v*255 + 0.5)
}
