package telemetry

import "github.com/pthm-cable/ocean/components"

// Population is a point-in-time view of the ocean's counters.
type Population struct {
	Capacity  int
	Obstacles int
	Predators int
	Prey      int
	Drift     bool // counters disagree with a board census
}

// Collector accumulates events within iteration windows and produces WindowStats.
// It implements ocean.EventRecorder.
type Collector struct {
	windowIterations int

	// Current window tracking
	windowStart int

	// Event counters for current window
	preyBirths  int
	predBirths  int
	preyEaten   int
	predStarved int

	// Run totals
	totalBirths int
	totalDeaths int

	// Event log, kept only when enabled
	iteration int
	logEvents bool
	events    []Event
}

// NewCollector creates a new stats collector flushing every windowIterations sweeps.
func NewCollector(windowIterations int) *Collector {
	if windowIterations < 1 {
		windowIterations = 1
	}
	return &Collector{windowIterations: windowIterations}
}

// SetIteration stamps subsequent events with iteration.
func (c *Collector) SetIteration(iteration int) {
	c.iteration = iteration
}

// EnableEventLog keeps every recorded event until DrainEvents.
func (c *Collector) EnableEventLog() {
	c.logEvents = true
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(kind components.Kind) {
	c.Record(NewBirthEvent(c.iteration, kind))
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(kind components.Kind, cause components.DeathCause) {
	c.Record(NewDeathEvent(c.iteration, kind, cause))
}

// Record counts an event and appends it to the event log if enabled.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventBirth:
		c.totalBirths++
		if e.Kind == components.KindPrey {
			c.preyBirths++
		} else {
			c.predBirths++
		}
	case EventDeath:
		c.totalDeaths++
		switch {
		case e.Kind == components.KindPrey && e.Cause == components.CauseEaten:
			c.preyEaten++
		case e.Kind == components.KindPredator && e.Cause == components.CauseStarved:
			c.predStarved++
		}
	}
	if c.logEvents {
		c.events = append(c.events, e)
	}
}

// DrainEvents returns the logged events and clears the log.
func (c *Collector) DrainEvents() []Event {
	events := c.events
	c.events = nil
	return events
}

// ShouldFlush returns true if enough iterations have passed to flush the window.
func (c *Collector) ShouldFlush(iteration int) bool {
	return iteration-c.windowStart >= c.windowIterations
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(iteration int, pop Population) WindowStats {
	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   iteration,

		Obstacles: pop.Obstacles,
		Predators: pop.Predators,
		Prey:      pop.Prey,

		PreyBirths:  c.preyBirths,
		PredBirths:  c.predBirths,
		PreyEaten:   c.preyEaten,
		PredStarved: c.predStarved,

		Drift: pop.Drift,
	}

	if open := pop.Capacity - pop.Obstacles; open > 0 {
		stats.PreyDensity = float64(pop.Prey) / float64(open)
		stats.PredDensity = float64(pop.Predators) / float64(open)
	}
	if pop.Prey > 0 {
		stats.PredPreyRatio = float64(pop.Predators) / float64(pop.Prey)
	}
	if pop.Predators > 0 {
		stats.KillsPerPredator = float64(c.preyEaten) / float64(pop.Predators)
	}

	// Reset for next window
	c.windowStart = iteration
	c.preyBirths = 0
	c.predBirths = 0
	c.preyEaten = 0
	c.predStarved = 0

	return stats
}

// WindowIterations returns the number of iterations per window.
func (c *Collector) WindowIterations() int {
	return c.windowIterations
}

// Totals returns the births and deaths recorded over the whole run.
func (c *Collector) Totals() (births, deaths int) {
	return c.totalBirths, c.totalDeaths
}
