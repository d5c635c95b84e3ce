package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/flip/fluid"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

// testSnapshot is a 1x1 tank on a 4x4 grid with walls on the sides and floor.
func testSnapshot() *fluid.Snapshot {
	s := &fluid.Snapshot{
		NumX: 4, NumY: 4, H: 0.25, ParticleRadius: 0.05,
		CellType: make([]fluid.CellType, 16),
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i == 0 || i == 3 || j == 0 {
				s.CellType[i*4+j] = fluid.SolidCell
			}
		}
	}
	return s
}

func TestRendererDraw(t *testing.T) {
	screen := newScreen(t, 8, 9)
	s := testSnapshot()
	s.PosX = []float64{0.55}
	s.PosY = []float64{0.55}
	s.Color = []fluid.RGB{{B: 1}}
	s.Obstacles = []fluid.Obstacle{{X: 0.3, Y: 0.8, Radius: 0.1}}

	NewRenderer(screen).Draw(s, "hello")

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"left wall", 0, 0, solidGlyph},
		{"floor", 4, 7, solidGlyph},
		{"open air", 4, 1, ' '},
		{"obstacle", 2, 1, obstacleGlyph},
		{"status", 0, 8, 'h'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _, _ := screen.GetContent(tt.x, tt.y)
			if got != tt.want {
				t.Errorf("cell (%d,%d) = %q, want %q", tt.x, tt.y, got, tt.want)
			}
		})
	}

	got, _, _, _ := screen.GetContent(4, 3)
	if got == ' ' || got == solidGlyph {
		t.Errorf("particle cell = %q, want a density glyph", got)
	}
}

func TestCellAtFlipsRows(t *testing.T) {
	s := testSnapshot()
	// Top-left terminal cell maps to the top of column 0.
	if got := cellAt(s, 0, 0, 8, 8); got != 3 {
		t.Errorf("cellAt top-left = %d, want 3", got)
	}
	// Bottom-right maps to the floor of the last column.
	if got := cellAt(s, 7, 7, 8, 8); got != 12 {
		t.Errorf("cellAt bottom-right = %d, want 12", got)
	}
}

type fakeSim struct {
	snap   *fluid.Snapshot
	tick   int32
	paused bool
	resets int
}

func (f *fakeSim) UpdateHeadless()           { f.tick++ }
func (f *fakeSim) Snapshot() *fluid.Snapshot { return f.snap }
func (f *fakeSim) Tick() int32               { return f.tick }
func (f *fakeSim) Paused() bool              { return f.paused }
func (f *fakeSim) TogglePause()              { f.paused = !f.paused }
func (f *fakeSim) Reset()                    { f.resets++ }

func TestRunStopsAtMaxTicks(t *testing.T) {
	screen := newScreen(t, 20, 10)
	sim := &fakeSim{snap: testSnapshot()}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Run(ctx, screen, sim, 200, 3); err != nil {
		t.Fatal(err)
	}
	if sim.tick != 3 {
		t.Errorf("ticks = %d, want 3", sim.tick)
	}
	if ctx.Err() != nil {
		t.Error("run stopped by timeout instead of max ticks")
	}
}
