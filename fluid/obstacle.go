package fluid

// Obstacle is a moving solid disc inside the tank.
type Obstacle struct {
	X, Y       float64
	Radius     float64
	VelX, VelY float64
}

// Obstacles returns the obstacles applied since the last ClearObstacles.
func (f *FlipFluid) Obstacles() []Obstacle {
	return f.obstacles
}

// ClearObstacles reopens every interior cell. Tank walls are untouched.
func (f *FlipFluid) ClearObstacles() {
	g := f.Grid
	for i := 1; i < g.NumX-1; i++ {
		for j := 1; j < g.NumY; j++ {
			g.S.Set(i, j, 1.0)
		}
	}
	f.obstacles = f.obstacles[:0]
}

// AddObstacle marks interior cells whose centre lies inside o as solid and
// sets their faces to the obstacle velocity. Particles touching the disc
// take its velocity during collision handling.
func (f *FlipFluid) AddObstacle(o Obstacle) {
	g := f.Grid
	n := g.NumY
	h := g.H
	r2 := o.Radius * o.Radius

	for i := 1; i < g.NumX-2; i++ {
		for j := 1; j < g.NumY-2; j++ {
			dx := (float64(i)+0.5)*h - o.X
			dy := (float64(j)+0.5)*h - o.Y
			if dx*dx+dy*dy >= r2 {
				continue
			}
			nr := i*n + j
			g.S.Data[nr] = 0.0
			g.U.Data[nr] = o.VelX
			g.U.Data[nr+n] = o.VelX
			g.V.Data[nr] = o.VelY
			g.V.Data[nr+1] = o.VelY
		}
	}

	f.obstacles = append(f.obstacles, o)
}
