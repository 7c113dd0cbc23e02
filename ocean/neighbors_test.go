package ocean

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/ocean/components"
)

func newTestOcean(rows, cols int, seed int64) *Ocean {
	p := Params{Rows: rows, Cols: cols, ReproducePeriod: 6, FeedPeriod: 6}
	return New(p, rand.New(rand.NewSource(seed)))
}

func TestToroidalNeighbors(t *testing.T) {
	o := newTestOcean(25, 70, 1)

	tests := []struct {
		name string
		dir  func(components.Coordinate) components.Coordinate
		from components.Coordinate
		want components.Coordinate
	}{
		{"north wraps from row 0", o.North, components.Coord(5, 0), components.Coord(5, 24)},
		{"south wraps from last row", o.South, components.Coord(5, 24), components.Coord(5, 0)},
		{"east wraps from last col", o.East, components.Coord(69, 3), components.Coord(0, 3)},
		{"west wraps from col 0", o.West, components.Coord(0, 3), components.Coord(69, 3)},
		{"north interior", o.North, components.Coord(10, 10), components.Coord(10, 9)},
		{"south interior", o.South, components.Coord(10, 10), components.Coord(10, 11)},
		{"east interior", o.East, components.Coord(10, 10), components.Coord(11, 10)},
		{"west interior", o.West, components.Coord(10, 10), components.Coord(9, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dir(tt.from); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNeighborsScanOrder(t *testing.T) {
	o := newTestOcean(5, 5, 1)
	got := o.Neighbors(components.Coord(0, 0))
	want := [4]components.Coordinate{
		components.Coord(0, 4), // north
		components.Coord(0, 1), // south
		components.Coord(1, 0), // east
		components.Coord(4, 0), // west
	}
	if got != want {
		t.Errorf("Neighbors = %v, want %v", got, want)
	}
}

func TestNeighborOfKindReturnsOriginWhenNoMatch(t *testing.T) {
	kinds := []components.Kind{
		components.KindWater,
		components.KindObstacle,
		components.KindPrey,
		components.KindPredator,
	}

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			o := newTestOcean(5, 5, 1)
			origin := components.Coord(2, 2)
			o.Place(components.NewPrey(origin, 6))

			// Fill the neighbors with something other than the queried kind.
			filler := components.KindObstacle
			if kind == components.KindObstacle {
				filler = components.KindWater
			}
			for _, nb := range o.Neighbors(origin) {
				if filler == components.KindObstacle {
					o.Place(components.NewObstacle(nb))
				}
			}

			if got := o.NeighborOfKind(origin, kind); got != origin {
				t.Errorf("NeighborOfKind(%v) = %v, want origin %v", kind, got, origin)
			}
		})
	}
}

func TestNeighborOfKindOnlyReturnsMatches(t *testing.T) {
	o := newTestOcean(5, 5, 7)
	origin := components.Coord(2, 2)
	north := components.Coord(2, 1)
	west := components.Coord(1, 2)
	o.Place(components.NewPrey(north, 6))
	o.Place(components.NewPrey(west, 6))

	seen := map[components.Coordinate]int{}
	for i := 0; i < 200; i++ {
		got := o.NeighborOfKind(origin, components.KindPrey)
		if got != north && got != west {
			t.Fatalf("NeighborOfKind returned %v, not a prey neighbor", got)
		}
		seen[got]++
	}
	if seen[north] == 0 || seen[west] == 0 {
		t.Errorf("expected both candidates to be drawn, got %v", seen)
	}
}

func TestNeighborOfKindWrapsAcrossEdges(t *testing.T) {
	o := newTestOcean(5, 5, 3)
	origin := components.Coord(0, 0)
	o.Place(components.NewObstacle(components.Coord(0, 1)))
	o.Place(components.NewObstacle(components.Coord(1, 0)))
	o.Place(components.NewObstacle(components.Coord(4, 0)))

	// Only the north neighbor, across the top edge, is water.
	if got := o.NeighborOfKind(origin, components.KindWater); got != components.Coord(0, 4) {
		t.Errorf("got %v, want (0,4)", got)
	}
}

func TestNeighborOfKindDeterministicWithSeed(t *testing.T) {
	a := newTestOcean(5, 5, 42)
	b := newTestOcean(5, 5, 42)
	origin := components.Coord(2, 2)

	for i := 0; i < 50; i++ {
		ga := a.NeighborOfKind(origin, components.KindWater)
		gb := b.NeighborOfKind(origin, components.KindWater)
		if ga != gb {
			t.Fatalf("draw %d: %v != %v with the same seed", i, ga, gb)
		}
	}
}
