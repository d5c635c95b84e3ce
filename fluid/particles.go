package fluid

// Particles holds the water particles as parallel arrays.
// Capacity is fixed at construction; Num grows with Add up to Cap().
type Particles struct {
	PosX, PosY []float64
	VelX, VelY []float64
	Color      []RGB

	Radius float64
	Num    int
}

func newParticles(maxParticles int, radius float64) *Particles {
	p := &Particles{
		PosX:   make([]float64, maxParticles),
		PosY:   make([]float64, maxParticles),
		VelX:   make([]float64, maxParticles),
		VelY:   make([]float64, maxParticles),
		Color:  make([]RGB, maxParticles),
		Radius: radius,
	}
	for i := range p.Color {
		p.Color[i] = RGB{R: 1, G: 1, B: 1}
	}
	return p
}

// Cap returns the fixed particle capacity.
func (p *Particles) Cap() int {
	return len(p.PosX)
}

// Add appends a particle at rest. Returns false when the set is full.
func (p *Particles) Add(x, y float64) bool {
	if p.Num >= len(p.PosX) {
		return false
	}
	i := p.Num
	p.PosX[i] = x
	p.PosY[i] = y
	p.VelX[i] = 0
	p.VelY[i] = 0
	p.Color[i] = RGB{R: 1, G: 1, B: 1}
	p.Num++
	return true
}

// Clear removes all particles without releasing storage.
func (p *Particles) Clear() {
	p.Num = 0
}
