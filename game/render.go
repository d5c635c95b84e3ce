package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/flip/camera"
	"github.com/pthm-cable/flip/fluid"
	"github.com/pthm-cable/flip/renderer"
	"github.com/pthm-cable/flip/ui"
)

const controlsLegend = "[Space] pause  [R] reset  [Tab] panel  [</>] speed  [arrows/wheel] camera  [Home] fit  [drag] obstacle"

// initRendering creates the camera, the panels and the renderers. Requires an
// open raylib window.
func (g *Game) initRendering() {
	cfg := g.cfg
	g.screenWidth = float32(cfg.Screen.Width)
	g.screenHeight = float32(cfg.Screen.Height)
	w, h := int32(g.screenWidth), int32(g.screenHeight)

	g.camera = camera.New(g.screenWidth, g.screenHeight, float32(cfg.Tank.Width), float32(cfg.Tank.Height))

	g.overlays = ui.NewOverlayRegistry()
	sc := g.fluid.Scene
	g.overlays.SetEnabled(ui.OverlayGrid, sc.ShowGrid)
	g.overlays.SetEnabled(ui.OverlayParticles, sc.ShowParticles)
	g.overlays.SetEnabled(ui.OverlayObstacles, sc.ShowObstacle)

	g.controls = ui.NewControlsPanel(10, 10, 230)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(w-230, 130)
	g.inspector = ui.NewInspector(w-230, h-260, 220)

	g.gridRenderer = renderer.NewGridRenderer()
	g.particleRenderer = renderer.NewParticleRenderer()
	g.bvhRenderer = renderer.NewBVHRenderer()
}

// Draw renders the tank, the overlays and the panels.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 16, G: 16, B: 24, A: 255})

	s := &g.snapshot
	switch {
	case g.overlays.IsEnabled(ui.OverlayGrid):
		g.gridRenderer.Draw(s.NumX, s.NumY, s.H, s.CellColor, g.camera)
	case g.overlays.IsEnabled(ui.OverlayPressure):
		g.gridRenderer.Draw(s.NumX, s.NumY, s.H, g.pressureField(), g.camera)
	}
	renderer.DrawTankOutline(float32(g.cfg.Tank.Width), float32(g.cfg.Tank.Height), g.camera)

	if g.overlays.IsEnabled(ui.OverlayParticles) {
		g.particleRenderer.Draw(s, g.camera)
	}
	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		renderer.DrawVelocities(s, g.camera, 4, 0.05)
	}
	if g.overlays.IsEnabled(ui.OverlayBVH) && g.tree != nil {
		g.bvhRenderer.Draw(g.tree.Nodes, g.camera)
	}
	if g.overlays.IsEnabled(ui.OverlayObstacles) {
		active := -1
		if g.dragging {
			active = g.obstacles.Index(g.dragged)
		}
		renderer.DrawObstacles(g.fluid.Obstacles(), g.camera, active)
	}
	if g.hasHover {
		g.drawHoverCell()
	}

	g.drawUI()

	rl.EndDrawing()
}

// pressureField colours every cell by its pressure on the scientific ramp.
func (g *Game) pressureField() []fluid.RGB {
	p := g.fluid.Grid.P.Data
	lo, hi := floats.Min(p), floats.Max(p)
	if cap(g.pressureColors) < len(p) {
		g.pressureColors = make([]fluid.RGB, len(p))
	}
	g.pressureColors = g.pressureColors[:len(p)]
	for i, v := range p {
		g.pressureColors[i] = fluid.SciColor(v, lo, hi)
	}
	return g.pressureColors
}

// drawHoverCell outlines the probed cell.
func (g *Game) drawHoverCell() {
	h := float32(g.fluid.Grid.H)
	x, y := g.camera.WorldToScreen(float32(g.hover.I)*h, float32(g.hover.J+1)*h)
	size := h * g.camera.PixelsPerMetre()
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: size, Height: size}, 1, rl.Yellow)
}

// drawUI renders the HUD and the panels.
func (g *Game) drawUI() {
	w, h := int32(g.screenWidth), int32(g.screenHeight)

	viewers := 0
	if g.hub != nil {
		viewers = g.hub.Clients()
	}
	g.hud.Draw(ui.HUDData{
		Title:          "FLIP Tank",
		Particles:      g.fluid.NumParticles(),
		FluidCells:     g.fluid.FluidCellCount(),
		Obstacles:      g.obstacles.Count(),
		Tick:           g.tick,
		SimTime:        g.fluid.SimTime(),
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		KineticEnergy:  g.lastKE,
		MaxDivergence:  g.lastDiv,
		Viewers:        viewers,
	}, w)

	if g.controls.Draw(g.overlays, &g.fluid.Scene) {
		sc := g.fluid.Scene
		slog.Debug("scene changed",
			"flip_ratio", sc.FlipRatio,
			"over_relaxation", sc.OverRelaxation,
			"pressure_iters", sc.NumPressureIters,
			"particle_iters", sc.NumParticleIters,
			"gravity", sc.Gravity,
		)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}
	if g.hasHover {
		g.inspector.Draw(g.hover)
	}

	g.hud.DrawControls(h, controlsLegend)
}
