package fluid

import "math"

// CellType classifies a grid cell for the current step.
type CellType uint8

const (
	AirCell CellType = iota
	FluidCell
	SolidCell
)

func (c CellType) String() string {
	switch c {
	case FluidCell:
		return "fluid"
	case SolidCell:
		return "solid"
	default:
		return "air"
	}
}

// RGB is a display colour with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// Field is a dense scalar field over the MAC grid.
// Cells are flattened x-major: Index(i, j) = i*NumY + j, so y-neighbours are
// at ±1 and x-neighbours at ±NumY.
type Field struct {
	Data []float64
	NumX int
	NumY int
}

// NewField allocates a zeroed field of numX × numY samples.
func NewField(numX, numY int) Field {
	return Field{
		Data: make([]float64, numX*numY),
		NumX: numX,
		NumY: numY,
	}
}

// Index returns the flat index of sample (i, j).
func (f Field) Index(i, j int) int {
	return i*f.NumY + j
}

// At returns the sample at (i, j).
func (f Field) At(i, j int) float64 {
	return f.Data[i*f.NumY+j]
}

// Set stores v at (i, j).
func (f Field) Set(i, j int, v float64) {
	f.Data[i*f.NumY+j] = v
}

// Fill sets every sample to v.
func (f Field) Fill(v float64) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// CopyFrom overwrites f with src. Both fields must have the same shape.
func (f Field) CopyFrom(src Field) {
	copy(f.Data, src.Data)
}

// Grid is the staggered MAC grid owned by the solver.
// U samples sit on vertical faces (left edge of cell i), V samples on
// horizontal faces (bottom edge of cell j).
type Grid struct {
	NumX     int
	NumY     int
	NumCells int

	H          float64 // cell size, equal in both axes
	InvSpacing float64

	U, V         Field
	PrevU, PrevV Field
	DU, DV       Field // splat weight sums, transient
	P            Field // pressure, display units
	S            Field // 0 = solid, 1 = open

	CellType  []CellType
	CellColor []RGB
}

func newGrid(width, height, spacing float64) *Grid {
	numX := int(width/spacing) + 1
	numY := int(height/spacing) + 1
	h := max(width/float64(numX), height/float64(numY))

	g := &Grid{
		NumX:       numX,
		NumY:       numY,
		NumCells:   numX * numY,
		H:          h,
		InvSpacing: 1.0 / h,
		U:          NewField(numX, numY),
		V:          NewField(numX, numY),
		PrevU:      NewField(numX, numY),
		PrevV:      NewField(numX, numY),
		DU:         NewField(numX, numY),
		DV:         NewField(numX, numY),
		P:          NewField(numX, numY),
		S:          NewField(numX, numY),
		CellType:   make([]CellType, numX*numY),
		CellColor:  make([]RGB, numX*numY),
	}

	// Tank walls: left, right and floor. The top stays open.
	for i := 0; i < numX; i++ {
		for j := 0; j < numY; j++ {
			s := 1.0
			if i == 0 || i == numX-1 || j == 0 {
				s = 0.0
			}
			g.S.Set(i, j, s)
		}
	}

	return g
}

// Index returns the flat cell index of (i, j).
func (g *Grid) Index(i, j int) int {
	return i*g.NumY + j
}

// classifyCells marks every cell SOLID or AIR from S. Fluid marking is done by
// the caller from particle occupancy.
func (g *Grid) classifyCells() {
	for i := range g.CellType {
		if g.S.Data[i] == 0.0 {
			g.CellType[i] = SolidCell
		} else {
			g.CellType[i] = AirCell
		}
	}
}

// restoreSolidFaces resets faces on or next to solid cells to their snapshot
// values so walls never absorb splatted momentum.
func (g *Grid) restoreSolidFaces() {
	n := g.NumY
	for i := 0; i < g.NumX; i++ {
		for j := 0; j < g.NumY; j++ {
			nr := i*n + j
			solid := g.CellType[nr] == SolidCell
			if solid || (i > 0 && g.CellType[nr-n] == SolidCell) {
				g.U.Data[nr] = g.PrevU.Data[nr]
			}
			if solid || (j > 0 && g.CellType[nr-1] == SolidCell) {
				g.V.Data[nr] = g.PrevV.Data[nr]
			}
		}
	}
}

// cellCoord maps a world coordinate to a cell column or row clamped to [lo, hi].
func (g *Grid) cellCoord(v float64, lo, hi int) int {
	return int(clampFloat(math.Floor(v*g.InvSpacing), float64(lo), float64(hi)))
}
