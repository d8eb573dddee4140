package world

import (
	"errors"

	"github.com/katalvlaran/siting/grid"
)

// Sentinel errors for world operations.
var (
	// ErrInvalidConfiguration indicates the grid cannot hold the requested
	// cities plus dispensers, or the city set itself is malformed.
	ErrInvalidConfiguration = errors.New("world: invalid configuration")

	// ErrInvalidSolution indicates a Solution does not fit the world
	// (wrong length, out of bounds, or overlapping an occupied cell).
	ErrInvalidSolution = errors.New("world: invalid solution")

	// ErrInvariantViolation indicates the occupancy set or the fitness cache
	// disagrees with the entity positions. It is never user-recoverable.
	ErrInvariantViolation = errors.New("world: invariant violation")
)

// defaultSeed seeds the stream used when New receives a nil *rand.Rand.
const defaultSeed int64 = 1

// Rendering glyphs used by GridString.
const (
	CityGlyph      = 'P'
	DispenserGlyph = 'd'
	EmptyGlyph     = '.'
)

// Solution is an ordered snapshot of dispenser coordinates; index i is
// dispenser i for the whole run.
type Solution []grid.Coordinate

// Clone returns an independent copy of s.
func (s Solution) Clone() Solution {
	if s == nil {
		return nil
	}
	out := make(Solution, len(s))
	copy(out, s)
	return out
}

// Equal reports whether s and o hold the same coordinates in the same order.
func (s Solution) Equal(o Solution) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}
