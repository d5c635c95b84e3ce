package game

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pthm-cable/flip/stream"
)

// Update handles input and advances the simulation by StepsPerUpdate ticks.
func (g *Game) Update() {
	g.handleInput()
	g.UpdateHeadless()
	g.updateHover()
}

// Reset rebuilds the tank from config. Scene edits made since start-up are
// kept, the tick counter and telemetry windows restart.
func (g *Game) Reset() {
	scene := g.fluid.Scene
	if err := g.buildFluid(); err != nil {
		slog.Error("failed to reset tank", "error", err)
		return
	}
	g.fluid.Scene = scene
	g.tick = 0
	g.hasHover = false
	g.collector = g.newCollector()
	slog.Info("tank reset", "particles", g.fluid.NumParticles())
}

// startStream serves snapshot frames over websocket until Unload.
func (g *Game) startStream(addr string) {
	g.hub = stream.NewHub(slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	g.streamCancel = cancel
	g.streamDone = make(chan struct{})

	go func() {
		defer close(g.streamDone)
		if err := g.hub.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stream server stopped", "addr", addr, "error", err)
		}
	}()
	slog.Info("streaming frames", "addr", addr, "interval_ticks", g.cfg.Stream.IntervalTicks)
}

// Unload releases the stream server, the output files and any GPU resources.
func (g *Game) Unload() {
	if g.streamCancel != nil {
		g.streamCancel()
		<-g.streamDone
		g.hub.Close()
		g.streamCancel = nil
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
}
