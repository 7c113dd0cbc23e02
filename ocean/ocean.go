// Package ocean implements the toroidal predator/prey grid and its stepping rules.
package ocean

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/ocean/components"
	"github.com/pthm-cable/ocean/config"
)

// MaxIterations is the hard cap on a single run's iteration budget.
const MaxIterations = 1000

// Params holds the fixed rules of an ocean.
type Params struct {
	Rows            int
	Cols            int
	ReproducePeriod int
	FeedPeriod      int
}

// DefaultParams returns the 25x70 ocean with both timer periods at 6.
func DefaultParams() Params {
	return Params{Rows: 25, Cols: 70, ReproducePeriod: 6, FeedPeriod: 6}
}

// ParamsFromConfig extracts ocean parameters from the loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Rows:            cfg.Ocean.Rows,
		Cols:            cfg.Ocean.Cols,
		ReproducePeriod: cfg.Timers.ReproducePeriod,
		FeedPeriod:      cfg.Timers.FeedPeriod,
	}
}

// EventRecorder receives population events as they are registered.
type EventRecorder interface {
	RecordBirth(kind components.Kind)
	RecordDeath(kind components.Kind, cause components.DeathCause)
}

// Ocean owns the grid of cells and the population counters.
//
// The counters are only changed by RegisterBirth and RegisterDeath (and by
// setup through Seed and Place). They are never recomputed from the board, so
// Census can be used to detect drift.
type Ocean struct {
	params Params
	rng    *rand.Rand

	cells [][]*components.Cell // [row][col]

	obstacles int
	predators int
	prey      int

	iteration int
	recorder  EventRecorder
}

// New creates an ocean filled with water.
func New(p Params, rng *rand.Rand) *Ocean {
	o := &Ocean{
		params: p,
		rng:    rng,
		cells:  make([][]*components.Cell, p.Rows),
	}
	for y := range o.cells {
		o.cells[y] = make([]*components.Cell, p.Cols)
		for x := range o.cells[y] {
			o.cells[y][x] = components.NewWater(components.Coord(x, y))
		}
	}
	return o
}

// NewSeeded creates an ocean and seeds it with the requested populations.
func NewSeeded(p Params, rng *rand.Rand, obstacles, predators, prey int) *Ocean {
	o := New(p, rng)
	o.Seed(obstacles, predators, prey)
	return o
}

// SetRecorder attaches an event recorder. A nil recorder disables events.
func (o *Ocean) SetRecorder(r EventRecorder) {
	o.recorder = r
}

// Params returns the ocean's rules.
func (o *Ocean) Params() Params { return o.params }

// Rows returns the number of rows.
func (o *Ocean) Rows() int { return o.params.Rows }

// Cols returns the number of columns.
func (o *Ocean) Cols() int { return o.params.Cols }

// Capacity returns the total number of slots.
func (o *Ocean) Capacity() int { return o.params.Rows * o.params.Cols }

// Obstacles returns the obstacle count.
func (o *Ocean) Obstacles() int { return o.obstacles }

// Predators returns the predator counter.
func (o *Ocean) Predators() int { return o.predators }

// Prey returns the prey counter.
func (o *Ocean) Prey() int { return o.prey }

// Iteration returns the number of completed sweeps.
func (o *Ocean) Iteration() int { return o.iteration }

// At returns the cell occupying c.
func (o *Ocean) At(c components.Coordinate) *components.Cell {
	return o.cells[c.Y][c.X]
}

// KindAt returns the kind of the cell occupying c.
func (o *Ocean) KindAt(c components.Coordinate) components.Kind {
	return o.cells[c.Y][c.X].Kind
}

// set overwrites the slot at c. Overwriting is destruction of the old cell.
func (o *Ocean) set(c components.Coordinate, cell *components.Cell) {
	o.cells[c.Y][c.X] = cell
}

// Place overwrites the slot at cell.Pos and adjusts the counters for the
// removed and added kinds. It is a setup operation for building scenarios;
// behavior never calls it and it emits no events.
func (o *Ocean) Place(cell *components.Cell) {
	old := o.At(cell.Pos)
	o.adjust(old.Kind, -1)
	o.adjust(cell.Kind, 1)
	o.set(cell.Pos, cell)
}

func (o *Ocean) adjust(kind components.Kind, delta int) {
	switch kind {
	case components.KindObstacle:
		o.obstacles += delta
	case components.KindPredator:
		o.predators += delta
	case components.KindPrey:
		o.prey += delta
	}
}

// RegisterBirth increments the counter for kind.
func (o *Ocean) RegisterBirth(kind components.Kind) {
	switch kind {
	case components.KindPredator:
		o.predators++
	case components.KindPrey:
		o.prey++
	default:
		return
	}
	if o.recorder != nil {
		o.recorder.RecordBirth(kind)
	}
}

// RegisterDeath decrements the counter for kind.
func (o *Ocean) RegisterDeath(kind components.Kind, cause components.DeathCause) {
	switch kind {
	case components.KindPredator:
		o.predators--
	case components.KindPrey:
		o.prey--
	default:
		return
	}
	if o.recorder != nil {
		o.recorder.RecordDeath(kind, cause)
	}
}

// SeedResult reports the populations accepted after clamping.
type SeedResult struct {
	Obstacles int
	Predators int
	Prey      int
}

// Seed clears the board and places obstacles, then predators, then prey.
// Each request is clamped to the capacity left by the earlier ones.
func (o *Ocean) Seed(obstacles, predators, prey int) SeedResult {
	for y := range o.cells {
		for x := range o.cells[y] {
			o.cells[y][x] = components.NewWater(components.Coord(x, y))
		}
	}
	o.obstacles, o.predators, o.prey = 0, 0, 0

	capacity := o.Capacity()
	obstacles = clamp(obstacles, capacity)
	predators = clamp(predators, capacity-obstacles)
	prey = clamp(prey, capacity-obstacles-predators)

	for i := 0; i < obstacles; i++ {
		c := o.emptyCoord()
		o.set(c, components.NewObstacle(c))
	}
	for i := 0; i < predators; i++ {
		c := o.emptyCoord()
		o.set(c, components.NewPredator(c, o.params.ReproducePeriod, o.params.FeedPeriod))
	}
	for i := 0; i < prey; i++ {
		c := o.emptyCoord()
		o.set(c, components.NewPrey(c, o.params.ReproducePeriod))
	}

	o.obstacles = obstacles
	o.predators = predators
	o.prey = prey

	slog.Debug("ocean seeded",
		"rows", o.params.Rows,
		"cols", o.params.Cols,
		"obstacles", obstacles,
		"predators", predators,
		"prey", prey,
	)

	return SeedResult{Obstacles: obstacles, Predators: predators, Prey: prey}
}

// emptyCoord draws random coordinates until one holds water.
// Callers guarantee at least one water slot remains.
func (o *Ocean) emptyCoord() components.Coordinate {
	for {
		x := o.rng.Intn(o.params.Cols)
		y := o.rng.Intn(o.params.Rows)
		if o.cells[y][x].Kind == components.KindWater {
			return components.Coord(x, y)
		}
	}
}

func clamp(requested, available int) int {
	return max(0, min(requested, available))
}

// Census counts the kinds actually present on the board.
type Census struct {
	Water     int
	Obstacles int
	Predators int
	Prey      int
}

// Total returns the number of cells counted.
func (c Census) Total() int {
	return c.Water + c.Obstacles + c.Predators + c.Prey
}

// Census scans the board. It never modifies the counters.
func (o *Ocean) Census() Census {
	var c Census
	for _, row := range o.cells {
		for _, cell := range row {
			switch cell.Kind {
			case components.KindWater:
				c.Water++
			case components.KindObstacle:
				c.Obstacles++
			case components.KindPredator:
				c.Predators++
			case components.KindPrey:
				c.Prey++
			}
		}
	}
	return c
}

// Drift reports whether the counters disagree with the board.
func (o *Ocean) Drift() (Census, bool) {
	c := o.Census()
	return c, c.Obstacles != o.obstacles || c.Predators != o.predators || c.Prey != o.prey
}

// Kinds appends the kind of every slot in row-major order to dst.
func (o *Ocean) Kinds(dst []components.Kind) []components.Kind {
	for _, row := range o.cells {
		for _, cell := range row {
			dst = append(dst, cell.Kind)
		}
	}
	return dst
}
