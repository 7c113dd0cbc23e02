package game

import (
	"log/slog"

	"github.com/pthm-cable/ocean/ocean"
	"github.com/pthm-cable/ocean/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.ocean.Iteration()) {
		return
	}
	g.flushWindow()
}

// flushWindow writes the stats for the iterations since the last flush.
func (g *Game) flushWindow() {
	iteration := g.ocean.Iteration()
	stats := g.collector.Flush(iteration, g.population())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEnd); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := g.outputManager.WriteEvents(g.collector.DrainEvents()); err != nil {
		slog.Error("failed to write events", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// population samples the ocean counters and audits them against the board.
func (g *Game) population() telemetry.Population {
	census, drift := g.ocean.Drift()
	if drift && !g.driftReported {
		g.driftReported = true
		slog.Warn("population counters drifted from board",
			"iteration", g.ocean.Iteration(),
			"predators", g.ocean.Predators(),
			"prey", g.ocean.Prey(),
			"board_predators", census.Predators,
			"board_prey", census.Prey,
		)
	}
	return telemetry.Population{
		Capacity:  g.ocean.Capacity(),
		Obstacles: g.ocean.Obstacles(),
		Predators: g.ocean.Predators(),
		Prey:      g.ocean.Prey(),
		Drift:     drift,
	}
}

// finish flushes the partial last window, writes the summary and the
// end-of-run trailer.
func (g *Game) finish(res ocean.RunResult) error {
	if g.ocean.Iteration() > 0 && g.ocean.Iteration()%g.collector.WindowIterations() != 0 {
		g.flushWindow()
	}

	summary := g.Summary(res)
	slog.Info("run finished",
		"budget", res.Budget,
		"iterations", res.Iterations,
		"reason", res.Reason.String(),
		"summary", summary,
	)
	if err := g.outputManager.WriteSummary(summary); err != nil {
		slog.Error("failed to write summary", "error", err)
	}

	if g.text != nil {
		return g.text.WriteEnd()
	}
	return nil
}

// Summary computes run-level statistics for res.
func (g *Game) Summary(res ocean.RunResult) telemetry.Summary {
	summary := telemetry.Summarize(&g.series)
	summary.Iterations = res.Iterations
	summary.StopReason = res.Reason.String()
	summary.Births, summary.Deaths = g.collector.Totals()
	return summary
}
