// Package components defines the cell variants that occupy ocean slots.
package components

// Kind tags the variant held by a Cell.
type Kind uint8

const (
	KindWater    Kind = iota // Empty slot
	KindObstacle             // Static, never processed
	KindPrey                 // Moves and reproduces
	KindPredator             // Moves, reproduces, feeds on prey and starves
)

// Cell is the tagged variant stored in every ocean slot.
// Only agents (prey and predators) use the timers.
type Cell struct {
	Kind Kind
	Pos  Coordinate

	ReproduceTimer int // Steps until the next successful move leaves offspring
	FeedTimer      int // Predator only: steps left before starvation
}

// NewWater returns an empty slot at pos.
func NewWater(pos Coordinate) *Cell {
	return &Cell{Kind: KindWater, Pos: pos}
}

// NewObstacle returns an obstacle at pos.
func NewObstacle(pos Coordinate) *Cell {
	return &Cell{Kind: KindObstacle, Pos: pos}
}

// NewPrey returns a prey at pos with a full reproduction timer.
func NewPrey(pos Coordinate, reproducePeriod int) *Cell {
	return &Cell{Kind: KindPrey, Pos: pos, ReproduceTimer: reproducePeriod}
}

// NewPredator returns a predator at pos with full reproduction and feed timers.
func NewPredator(pos Coordinate, reproducePeriod, feedPeriod int) *Cell {
	return &Cell{
		Kind:           KindPredator,
		Pos:            pos,
		ReproduceTimer: reproducePeriod,
		FeedTimer:      feedPeriod,
	}
}

// IsAgent reports whether the cell is a mobile species.
func (c *Cell) IsAgent() bool {
	return c.Kind == KindPrey || c.Kind == KindPredator
}

// DeathCause records why an agent left the board.
type DeathCause uint8

const (
	CauseStarved DeathCause = iota // Predator feed timer ran out
	CauseEaten                     // Prey consumed by a predator
)

// String returns the display name for a DeathCause.
func (c DeathCause) String() string {
	switch c {
	case CauseStarved:
		return "starved"
	case CauseEaten:
		return "eaten"
	}
	return "unknown"
}
