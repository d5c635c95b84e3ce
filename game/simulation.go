package game

import (
	"log/slog"

	"github.com/pthm-cable/flip/bvh"
	"github.com/pthm-cable/flip/stream"
	"github.com/pthm-cable/flip/telemetry"
)

// UpdateHeadless runs StepsPerUpdate ticks without touching raylib.
func (g *Game) UpdateHeadless() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step advances the tank by one tick.
func (g *Game) step() {
	f := g.fluid
	dt := f.Scene.DT
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseObstacles)
	g.obstacles.Update(dt)
	if f.Scene.ShowObstacle {
		g.obstacles.Apply(f)
	} else if len(f.Obstacles()) > 0 {
		f.ClearObstacles()
	}

	f.Simulate(dt)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseBVH)
	f.SnapshotInto(&g.snapshot)
	if interval := g.cfg.BVH.RebuildInterval; interval > 0 && g.tick%int32(interval) == 0 {
		g.rebuildBVH()
		g.collector.RecordBVHRebuild()
	}

	g.perfCollector.StartPhase(telemetry.PhaseStream)
	g.publishFrame()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.lastKE = f.KineticEnergy()
	g.lastDiv = f.MaxDivergence()
	g.collector.RecordStep(g.lastKE, g.lastDiv)

	g.perfCollector.EndTick()
	g.flushTelemetry()
}

// rebuildBVH builds the particle hierarchy over the current snapshot. The
// payload is the particle index.
func (g *Game) rebuildBVH() {
	s := &g.snapshot
	n := s.NumParticles()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	position := func(i int) bvh.Vec3 {
		return bvh.Vec3{X: s.PosX[i], Y: s.PosY[i]}
	}
	radius := s.ParticleRadius * g.cfg.BVH.RadiusScale
	g.tree = bvh.Build(indices, position, radius, g.cfg.BVH.MaxDepth)
	g.treeStat = g.tree.Stats()
}

// publishFrame sends the snapshot to stream viewers every interval ticks.
func (g *Game) publishFrame() {
	if g.hub == nil || g.hub.Clients() == 0 {
		return
	}
	interval := max(g.cfg.Stream.IntervalTicks, 1)
	if g.tick%int32(interval) != 0 {
		return
	}
	stream.FrameFromSnapshot(&g.frame, g.tick, &g.snapshot)
	if err := g.hub.Publish(&g.frame); err != nil {
		slog.Error("failed to publish frame", "error", err)
	}
}
