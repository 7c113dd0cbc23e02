package ocean

import "github.com/pthm-cable/ocean/components"

// North returns the slot above c, wrapping to the last row.
func (o *Ocean) North(c components.Coordinate) components.Coordinate {
	y := c.Y - 1
	if y < 0 {
		y = o.params.Rows - 1
	}
	return components.Coord(c.X, y)
}

// South returns the slot below c, wrapping to row 0.
func (o *Ocean) South(c components.Coordinate) components.Coordinate {
	return components.Coord(c.X, (c.Y+1)%o.params.Rows)
}

// East returns the slot right of c, wrapping to column 0.
func (o *Ocean) East(c components.Coordinate) components.Coordinate {
	return components.Coord((c.X+1)%o.params.Cols, c.Y)
}

// West returns the slot left of c, wrapping to the last column.
func (o *Ocean) West(c components.Coordinate) components.Coordinate {
	x := c.X - 1
	if x < 0 {
		x = o.params.Cols - 1
	}
	return components.Coord(x, c.Y)
}

// Neighbors returns the four neighbors of c in scan order: north, south, east, west.
func (o *Ocean) Neighbors(c components.Coordinate) [4]components.Coordinate {
	return [4]components.Coordinate{o.North(c), o.South(c), o.East(c), o.West(c)}
}

// NeighborOfKind picks uniformly at random among the neighbors of c holding
// kind, scanned north, south, east, west. It returns c itself when none match.
func (o *Ocean) NeighborOfKind(c components.Coordinate, kind components.Kind) components.Coordinate {
	var matches [4]components.Coordinate
	n := 0
	for _, nb := range o.Neighbors(c) {
		if o.KindAt(nb) == kind {
			matches[n] = nb
			n++
		}
	}
	if n == 0 {
		return c
	}
	return matches[o.rng.Intn(n)]
}
