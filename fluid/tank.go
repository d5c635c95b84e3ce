package fluid

import (
	"fmt"
	"math"
	"math/rand"
)

// Tank describes the dam-break scene: a block of water packed into the lower
// left of an open tank.
type Tank struct {
	Width, Height       float64
	Resolution          int // cells along the tank height
	Density             float64
	RelWaterWidth       float64
	RelWaterHeight      float64
	ParticleRadiusScale float64 // particle radius as a fraction of cell size
	Jitter              float64 // random offset as a fraction of the radius
}

// DefaultTank returns the 3 × 4 tank at resolution 100.
func DefaultTank() Tank {
	return Tank{
		Width:               3.0,
		Height:              4.0,
		Resolution:          100,
		Density:             1000.0,
		RelWaterWidth:       0.6,
		RelWaterHeight:      0.8,
		ParticleRadiusScale: 0.3,
	}
}

// Spacing returns the grid cell size the tank asks for.
func (t Tank) Spacing() float64 {
	return t.Height / float64(t.Resolution)
}

// NewTank builds a solver filled with a hexagonally packed water block.
// rng may be nil when Jitter is zero.
func NewTank(t Tank, rng *rand.Rand) (*FlipFluid, error) {
	if t.Resolution < 3 {
		return nil, fmt.Errorf("tank resolution must be at least 3, got %d", t.Resolution)
	}
	if t.ParticleRadiusScale <= 0 {
		return nil, fmt.Errorf("particle radius scale must be positive, got %g", t.ParticleRadiusScale)
	}

	h := t.Spacing()
	r := t.ParticleRadiusScale * h
	dx := 2.0 * r
	dy := math.Sqrt(3.0) / 2.0 * dx

	numX := max(int(math.Floor((t.RelWaterWidth*t.Width-2.0*h-2.0*r)/dx)), 0)
	numY := max(int(math.Floor((t.RelWaterHeight*t.Height-2.0*h-2.0*r)/dy)), 0)

	f, err := NewFlipFluid(Params{
		Density:        t.Density,
		Width:          t.Width,
		Height:         t.Height,
		Spacing:        h,
		ParticleRadius: r,
		MaxParticles:   numX * numY,
	})
	if err != nil {
		return nil, fmt.Errorf("creating solver: %w", err)
	}

	jitter := t.Jitter * r
	for i := 0; i < numX; i++ {
		for j := 0; j < numY; j++ {
			x := h + r + dx*float64(i)
			if j%2 != 0 {
				x += r
			}
			y := h + r + dy*float64(j)
			if jitter > 0 && rng != nil {
				x += (rng.Float64() - 0.5) * jitter
				y += (rng.Float64() - 0.5) * jitter
			}
			f.AddParticle(x, y)
		}
	}

	return f, nil
}
