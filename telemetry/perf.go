package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one iteration.
const (
	PhaseSweep     = "sweep"
	PhaseRender    = "render"
	PhaseStream    = "stream"
	PhaseTelemetry = "telemetry"
)

// phaseOrder fixes the order phases are logged in.
var phaseOrder = []string{PhaseSweep, PhaseRender, PhaseStream, PhaseTelemetry}

// PerfSample holds timing data for a single iteration.
type PerfSample struct {
	IterationDuration time.Duration
	Phases            map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize     int
	samples        []PerfSample
	writeIndex     int
	sampleCount    int
	currentPhases  map[string]time.Duration
	iterationStart time.Time
	phaseStart     time.Time
	lastPhase      string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of iterations to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartIteration begins timing a new iteration.
func (p *PerfCollector) StartIteration() {
	p.iterationStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndIteration finishes timing the current iteration and records the sample.
func (p *PerfCollector) EndIteration() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		IterationDuration: now.Sub(p.iterationStart),
		Phases:            p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Iteration timing
	AvgIterationDuration time.Duration
	MinIterationDuration time.Duration
	MaxIterationDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total iteration time
	PhasePct map[string]float64

	// Throughput
	IterationsPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalIteration time.Duration
	var minIteration, maxIteration time.Duration
	phaseSum := make(map[string]time.Duration)

	// Iterate over valid samples
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalIteration += s.IterationDuration

		if i == 0 || s.IterationDuration < minIteration {
			minIteration = s.IterationDuration
		}
		if s.IterationDuration > maxIteration {
			maxIteration = s.IterationDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgIteration := totalIteration / time.Duration(p.sampleCount)

	// Calculate phase averages and percentages
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgIteration > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgIteration) * 100
		}
	}

	// Calculate throughput
	var iterationsPerSec float64
	if avgIteration > 0 {
		iterationsPerSec = float64(time.Second) / float64(avgIteration)
	}

	return PerfStats{
		AvgIterationDuration: avgIteration,
		MinIterationDuration: minIteration,
		MaxIterationDuration: maxIteration,
		PhaseAvg:             phaseAvg,
		PhasePct:             phasePct,
		IterationsPerSecond:  iterationsPerSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_iteration_us", s.AvgIterationDuration.Microseconds(),
		"min_iteration_us", s.MinIterationDuration.Microseconds(),
		"max_iteration_us", s.MaxIterationDuration.Microseconds(),
		"iterations_per_sec", int(s.IterationsPerSecond),
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_iteration_us", s.AvgIterationDuration.Microseconds()),
		slog.Int64("min_iteration_us", s.MinIterationDuration.Microseconds()),
		slog.Int64("max_iteration_us", s.MaxIterationDuration.Microseconds()),
		slog.Float64("iterations_per_sec", s.IterationsPerSecond),
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd        int     `csv:"window_end"`
	AvgIterationUS   int64   `csv:"avg_iteration_us"`
	MinIterationUS   int64   `csv:"min_iteration_us"`
	MaxIterationUS   int64   `csv:"max_iteration_us"`
	IterationsPerSec float64 `csv:"iterations_per_sec"`
	SweepPct         float64 `csv:"sweep_pct"`
	RenderPct        float64 `csv:"render_pct"`
	StreamPct        float64 `csv:"stream_pct"`
	TelemetryPct     float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:        windowEnd,
		AvgIterationUS:   s.AvgIterationDuration.Microseconds(),
		MinIterationUS:   s.MinIterationDuration.Microseconds(),
		MaxIterationUS:   s.MaxIterationDuration.Microseconds(),
		IterationsPerSec: s.IterationsPerSecond,
		SweepPct:         s.PhasePct[PhaseSweep],
		RenderPct:        s.PhasePct[PhaseRender],
		StreamPct:        s.PhasePct[PhaseStream],
		TelemetryPct:     s.PhasePct[PhaseTelemetry],
	}
}
