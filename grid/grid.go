package grid

import "fmt"

// Coordinate addresses a single cell on the board.
type Coordinate struct {
	Row, Col int
}

// String renders the coordinate as "(row,col)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Add returns c shifted by (dr, dc). The result is not bounds-checked.
func (c Coordinate) Add(dr, dc int) Coordinate {
	return Coordinate{Row: c.Row + dr, Col: c.Col + dc}
}

// Manhattan returns |a.Row-b.Row| + |a.Col-b.Col|.
// Complexity: O(1).
func Manhattan(a, b Coordinate) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Bounds is a Height×Width board anchored at (0,0).
type Bounds struct {
	Height, Width int
}

// Cells returns the number of cells on the board (0 for degenerate bounds).
func (b Bounds) Cells() int {
	if b.Height <= 0 || b.Width <= 0 {
		return 0
	}
	return b.Height * b.Width
}

// Contains reports whether c lies within the board.
// Complexity: O(1).
func (b Bounds) Contains(c Coordinate) bool {
	return c.Row >= 0 && c.Row < b.Height && c.Col >= 0 && c.Col < b.Width
}

// Index maps c to its row-major index: Row*Width + Col.
// The caller guarantees Contains(c).
func (b Bounds) Index(c Coordinate) int {
	return c.Row*b.Width + c.Col
}

// Coordinate converts a row-major index back to a Coordinate.
func (b Bounds) Coordinate(idx int) Coordinate {
	return Coordinate{Row: idx / b.Width, Col: idx % b.Width}
}
