// Package game wires the ocean to its renderers, frame stream and telemetry
// for a single run.
package game

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"github.com/pthm-cable/ocean/config"
	"github.com/pthm-cable/ocean/ocean"
	"github.com/pthm-cable/ocean/renderer"
	"github.com/pthm-cable/ocean/telemetry"
)

// FrameSink receives every rendered frame, e.g. a stream.Hub.
type FrameSink interface {
	Publish(f renderer.Frame)
}

// Options configures a run.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	Quiet     bool      // suppress text frames
	Frames    io.Writer // text frame destination (nil = stdout)
	Sink      FrameSink // optional

	// StatsCallback is called with every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the state of one run.
type Game struct {
	cfg   *config.Config
	ocean *ocean.Ocean

	rngSeed int64
	markers renderer.Markers
	text    *renderer.Text
	sink    FrameSink

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	series           telemetry.Series
	logStats         bool
	statsCallback    func(telemetry.WindowStats)

	driftReported bool
	initialShown  bool
}

// NewGameWithOptions creates a game with an empty ocean sized by cfg.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g := &Game{
		cfg:              cfg,
		ocean:            ocean.New(ocean.ParamsFromConfig(cfg), rand.New(rand.NewSource(opts.Seed))),
		rngSeed:          opts.Seed,
		markers:          renderer.MarkersFromConfig(cfg),
		sink:             opts.Sink,
		collector:        telemetry.NewCollector(cfg.Telemetry.Window),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize),
		outputManager:    om,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}
	g.ocean.SetRecorder(g.collector)
	if om != nil {
		g.collector.EnableEventLog()
	}

	if !opts.Quiet {
		w := opts.Frames
		if w == nil {
			w = os.Stdout
		}
		g.text = renderer.NewText(w, g.markers)
	}

	if om != nil {
		slog.Info("output enabled", "dir", om.Dir())
	}
	return g, nil
}

// Seed populates the ocean, clamping each request to the free capacity.
func (g *Game) Seed(pop config.PopulationConfig) ocean.SeedResult {
	res := g.ocean.Seed(pop.Obstacles, pop.Predators, pop.Prey)
	slog.Info("ocean seeded",
		"seed", g.rngSeed,
		"rows", g.ocean.Rows(),
		"cols", g.ocean.Cols(),
		"obstacles", res.Obstacles,
		"predators", res.Predators,
		"prey", res.Prey,
	)
	return res
}

// Start renders the seeded state ahead of Run, which then skips it.
func (g *Game) Start() error {
	return g.Observe(g.ocean, -1)
}

// Run executes up to iterations sweeps, rendering every frame, and writes
// the end-of-run output.
func (g *Game) Run(iterations int) (ocean.RunResult, error) {
	if g.initialShown {
		// Time between Start and Run is not sweep time.
		g.perfCollector.StartIteration()
		g.perfCollector.StartPhase(telemetry.PhaseSweep)
	}
	res, err := g.ocean.Run(iterations, g)
	if err != nil {
		return res, err
	}
	return res, g.finish(res)
}

// Observe renders, streams and records one frame. It implements ocean.Observer.
// The sweep phase of the next iteration is timed from the end of this call.
func (g *Game) Observe(o *ocean.Ocean, iteration int) error {
	if iteration < 0 {
		if g.initialShown {
			return nil
		}
		g.initialShown = true
	}
	if iteration >= 0 {
		g.perfCollector.StartPhase(telemetry.PhaseRender)
	}

	var frame renderer.Frame
	if g.text != nil || g.sink != nil {
		frame = renderer.Capture(o, iteration, g.markers)
	}
	if g.text != nil {
		if err := g.text.WriteFrame(frame); err != nil {
			return err
		}
	}

	if iteration >= 0 {
		g.perfCollector.StartPhase(telemetry.PhaseStream)
	}
	if g.sink != nil {
		g.sink.Publish(frame)
	}

	if iteration >= 0 {
		g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	}
	g.series.Add(o.Predators(), o.Prey())
	g.flushTelemetry()

	if iteration >= 0 {
		g.perfCollector.EndIteration()
	}
	// Events of the coming sweep carry its frame number.
	g.collector.SetIteration(o.Iteration() + 1)
	g.perfCollector.StartIteration()
	g.perfCollector.StartPhase(telemetry.PhaseSweep)
	return nil
}

var _ ocean.Observer = (*Game)(nil)

// Ocean returns the simulated ocean.
func (g *Game) Ocean() *ocean.Ocean {
	return g.ocean
}

// Series returns the per-iteration population history.
func (g *Game) Series() *telemetry.Series {
	return &g.series
}

// Unload closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
