package fluid

import "math"

// SpatialHash buckets particles into a uniform grid for neighbour queries.
// It is rebuilt from scratch with a counting sort on every Build call.
type SpatialHash struct {
	Spacing    float64
	InvSpacing float64
	NumX       int
	NumY       int
	NumCells   int

	numCellParticles  []int
	firstCellParticle []int // NumCells+1 entries, last is a guard
	cellParticleIDs   []int
}

// NewSpatialHash creates a hash covering width × height with the given cell size.
func NewSpatialHash(width, height, spacing float64, maxParticles int) *SpatialHash {
	inv := 1.0 / spacing
	numX := int(math.Floor(width*inv)) + 1
	numY := int(math.Floor(height*inv)) + 1
	return &SpatialHash{
		Spacing:           spacing,
		InvSpacing:        inv,
		NumX:              numX,
		NumY:              numY,
		NumCells:          numX * numY,
		numCellParticles:  make([]int, numX*numY),
		firstCellParticle: make([]int, numX*numY+1),
		cellParticleIDs:   make([]int, maxParticles),
	}
}

// cellCoord maps a coordinate to a clamped cell column or row.
func (h *SpatialHash) cellCoord(v float64, n int) int {
	c := math.Floor(v * h.InvSpacing)
	if !(c >= 0) { // also catches NaN
		return 0
	}
	if c > float64(n-1) {
		return n - 1
	}
	return int(c)
}

// CellIndex returns the bucket holding position (x, y).
func (h *SpatialHash) CellIndex(x, y float64) int {
	return h.cellCoord(x, h.NumX)*h.NumY + h.cellCoord(y, h.NumY)
}

// Build buckets the first n particles.
func (h *SpatialHash) Build(posX, posY []float64, n int) {
	for i := range h.numCellParticles {
		h.numCellParticles[i] = 0
	}

	for i := 0; i < n; i++ {
		h.numCellParticles[h.CellIndex(posX[i], posY[i])]++
	}

	// Prefix sums point one past the end of each bucket; the fill pass
	// decrements them down to the bucket start.
	first := 0
	for i := 0; i < h.NumCells; i++ {
		first += h.numCellParticles[i]
		h.firstCellParticle[i] = first
	}
	h.firstCellParticle[h.NumCells] = first

	for i := 0; i < n; i++ {
		cellNr := h.CellIndex(posX[i], posY[i])
		h.firstCellParticle[cellNr]--
		h.cellParticleIDs[h.firstCellParticle[cellNr]] = i
	}
}

// Cell returns the particle ids bucketed in cellNr. The slice aliases internal
// storage and is valid until the next Build.
func (h *SpatialHash) Cell(cellNr int) []int {
	return h.cellParticleIDs[h.firstCellParticle[cellNr]:h.firstCellParticle[cellNr+1]]
}

// neighbourRange returns the inclusive cell range around the cell containing
// v, clipped to [0, n-1]. The range is empty (lo > hi) when v lies far outside.
func (h *SpatialHash) neighbourRange(v float64, n int) (lo, hi int) {
	c := math.Floor(v * h.InvSpacing)
	if math.IsNaN(c) {
		return 0, -1
	}
	c = math.Max(math.Min(c, float64(n)), -1)
	ci := int(c)
	return max(ci-1, 0), min(ci+1, n-1)
}
