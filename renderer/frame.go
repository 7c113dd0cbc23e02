// Package renderer turns ocean state into frames of single-character markers.
package renderer

import (
	"strings"

	"github.com/pthm-cable/ocean/components"
	"github.com/pthm-cable/ocean/config"
	"github.com/pthm-cable/ocean/ocean"
)

// Markers maps each cell kind to its display character.
type Markers struct {
	Water    rune
	Prey     rune
	Predator rune
	Obstacle rune
	Border   rune
}

// DefaultMarkers returns - f S # with a * border.
func DefaultMarkers() Markers {
	return Markers{
		Water:    components.KindWater.Marker(),
		Prey:     components.KindPrey.Marker(),
		Predator: components.KindPredator.Marker(),
		Obstacle: components.KindObstacle.Marker(),
		Border:   components.MarkerBorder,
	}
}

// MarkersFromConfig reads the markers section of the config.
// Missing entries fall back to the defaults.
func MarkersFromConfig(cfg *config.Config) Markers {
	m := DefaultMarkers()
	pick := func(dst *rune, s string) {
		if r := []rune(s); len(r) == 1 {
			*dst = r[0]
		}
	}
	pick(&m.Water, cfg.Markers.Water)
	pick(&m.Prey, cfg.Markers.Prey)
	pick(&m.Predator, cfg.Markers.Predator)
	pick(&m.Obstacle, cfg.Markers.Obstacle)
	pick(&m.Border, cfg.Markers.Border)
	return m
}

// For returns the marker for kind.
func (m Markers) For(kind components.Kind) rune {
	switch kind {
	case components.KindObstacle:
		return m.Obstacle
	case components.KindPrey:
		return m.Prey
	case components.KindPredator:
		return m.Predator
	default:
		return m.Water
	}
}

// Frame is one rendered view of the ocean.
type Frame struct {
	Iteration int      `json:"iteration"` // 0 for the seeded state, then 1..n
	Obstacles int      `json:"obstacles"`
	Predators int      `json:"predators"`
	Prey      int      `json:"prey"`
	Rows      []string `json:"rows"`
}

// Capture renders the ocean after the given sweep index (-1 before the first sweep).
func Capture(o *ocean.Ocean, iteration int, m Markers) Frame {
	f := Frame{
		Iteration: iteration + 1,
		Obstacles: o.Obstacles(),
		Predators: o.Predators(),
		Prey:      o.Prey(),
		Rows:      make([]string, o.Rows()),
	}

	var sb strings.Builder
	for y := 0; y < o.Rows(); y++ {
		sb.Reset()
		sb.Grow(o.Cols())
		for x := 0; x < o.Cols(); x++ {
			sb.WriteRune(m.For(o.KindAt(components.Coord(x, y))))
		}
		f.Rows[y] = sb.String()
	}
	return f
}

// Cols returns the frame width.
func (f Frame) Cols() int {
	if len(f.Rows) == 0 {
		return 0
	}
	return len([]rune(f.Rows[0]))
}
