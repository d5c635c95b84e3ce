package game

import (
	"log/slog"

	"github.com/pthm-cable/flip/telemetry"
)

// flushTelemetry closes the stats window when it is due and fans the record
// out to the callback, the log and the CSV files.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.fluid, g.treeStat)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		if g.hub != nil {
			slog.Info("stream",
				"viewers", g.hub.Clients(),
				"published", g.hub.Published(),
				"dropped", g.hub.Dropped(),
			)
		}
	}

	if err := g.outputManager.WriteFrame(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// PerfStats returns the rolling phase timings.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}
