package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flip/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.Reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if key := rl.GetKeyPressed(); key != 0 {
		if _, _, ok := g.overlays.HandleKeyPress(key); ok {
			g.syncSceneFlags()
		}
	}

	g.handleCameraInput()
	g.handleMouse()
}

// syncSceneFlags mirrors the overlays that the Scene also records.
func (g *Game) syncSceneFlags() {
	sc := &g.fluid.Scene
	sc.ShowGrid = g.overlays.IsEnabled(ui.OverlayGrid)
	sc.ShowParticles = g.overlays.IsEnabled(ui.OverlayParticles)
	sc.ShowObstacle = g.overlays.IsEnabled(ui.OverlayObstacles)
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.perfPanel.SetPosition(int32(w)-230, 130)
	g.inspector.SetPosition(int32(w)-230, int32(h)-260)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		g.camera.ZoomBy(1 + wheelMove*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handleMouse drags obstacles. Pressing on empty tank space moves the first
// obstacle to the cursor.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()

	if g.dragging && rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.obstacles.Release(g.dragged)
		g.dragging = false
		return
	}

	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	x, y := float64(wx), float64(wy)
	dt := g.fluid.Scene.DT * float64(g.stepsPerUpdate)

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !g.controls.Contains(mouse.X, mouse.Y) {
		e, ok := g.obstacles.Pick(x, y)
		if !ok {
			e, ok = g.obstacles.First()
		}
		if !ok {
			return
		}
		g.obstacles.Grab(e, x, y)
		g.dragged = e
		g.dragging = true
		g.overlays.SetEnabled(ui.OverlayObstacles, true)
		g.syncSceneFlags()
	} else if g.dragging && rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		g.obstacles.DragTo(g.dragged, x, y, dt)
	} else {
		return
	}
	if g.paused {
		g.obstacles.Apply(g.fluid)
	}
}
