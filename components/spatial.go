package components

import "fmt"

// Coordinate addresses a grid slot. X is the column, Y is the row.
// The zero value is (0,0).
type Coordinate struct {
	X, Y int
}

// Coord returns the coordinate (x, y).
func Coord(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// String returns the coordinate as "(x,y)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
