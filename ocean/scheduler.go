package ocean

import "fmt"

// StopReason explains why a run ended.
type StopReason uint8

const (
	StopBudgetExhausted StopReason = iota
	StopPredatorsExtinct
	StopPreyExtinct
)

// String returns the display name for a StopReason.
func (r StopReason) String() string {
	switch r {
	case StopBudgetExhausted:
		return "budget_exhausted"
	case StopPredatorsExtinct:
		return "predators_extinct"
	case StopPreyExtinct:
		return "prey_extinct"
	}
	return "unknown"
}

// RunResult summarizes a finished run.
type RunResult struct {
	Budget     int        // Iterations requested after clamping
	Iterations int        // Sweeps actually executed
	Reason     StopReason // Why the run stopped
}

// Observer is notified after seeding and after every sweep.
// The initial call uses iteration -1.
type Observer interface {
	Observe(o *Ocean, iteration int) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(o *Ocean, iteration int) error

// Observe calls f.
func (f ObserverFunc) Observe(o *Ocean, iteration int) error {
	return f(o, iteration)
}

// Step performs one row-major sweep. Each slot is visited once and the cell
// occupying it at that moment is processed, so a cell that moved forward in
// the sweep can be processed again in the same step.
func (o *Ocean) Step() {
	for y := 0; y < o.params.Rows; y++ {
		for x := 0; x < o.params.Cols; x++ {
			if c := o.cells[y][x]; c.IsAgent() {
				o.process(c)
			}
		}
	}
	o.iteration++
}

// Run sweeps the ocean up to iterations times, clamped to [0, MaxIterations].
// It stops early, without error, as soon as either population reaches zero.
// An error is returned only when the observer fails.
func (o *Ocean) Run(iterations int, obs Observer) (RunResult, error) {
	res := RunResult{Budget: max(0, min(iterations, MaxIterations))}

	if obs != nil {
		if err := obs.Observe(o, -1); err != nil {
			return res, fmt.Errorf("observing initial state: %w", err)
		}
	}

	for i := 0; i < res.Budget; i++ {
		if o.predators <= 0 {
			res.Reason = StopPredatorsExtinct
			return res, nil
		}
		if o.prey <= 0 {
			res.Reason = StopPreyExtinct
			return res, nil
		}

		o.Step()
		res.Iterations++

		if obs != nil {
			if err := obs.Observe(o, i); err != nil {
				return res, fmt.Errorf("observing iteration %d: %w", i, err)
			}
		}
	}

	switch {
	case o.predators <= 0:
		res.Reason = StopPredatorsExtinct
	case o.prey <= 0:
		res.Reason = StopPreyExtinct
	default:
		res.Reason = StopBudgetExhausted
	}
	return res, nil
}
