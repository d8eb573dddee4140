// Package grid holds the rectangular-board geometry shared by the siting
// packages: cell coordinates, bounds checks, row-major indexing and the
// Manhattan metric.
//
// What:
//
//   - Coordinate is a (Row, Col) pair; Row grows downwards, Col to the right.
//   - Bounds describes a Height×Width board anchored at (0,0).
//   - Manhattan is the only distance the optimizer uses.
//
// Complexity:
//
//   - Every function in this package is O(1) and allocation-free.
//
// Conventions:
//
//   - Row-major indexing: Index(c) = c.Row*Width + c.Col.
//   - A coordinate is valid iff 0 ≤ Row < Height and 0 ≤ Col < Width.
package grid
