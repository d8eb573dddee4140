package world

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/siting/grid"
)

// World owns the board geometry, the immutable city set, the mutable
// dispenser placement, the occupancy set and the cached fitness.
// A World is not safe for concurrent use; the search loop owns it exclusively.
type World struct {
	bounds     grid.Bounds
	cities     []grid.Coordinate
	dispensers []grid.Coordinate
	occupied   map[grid.Coordinate]struct{}

	// nearest[i] is the index of a dispenser closest to cities[i];
	// dist[i] is that distance. total is Σ dist.
	nearest []int
	dist    []int
	total   int
}

// New constructs a World of width×height with the given cities and
// dispenserCount dispensers sampled, without replacement, from city-free
// cells using rng. A nil rng falls back to a fixed-seed stream.
//
// Returns ErrInvalidConfiguration if the board is degenerate, a city lies
// outside it or repeats, dispenserCount < 1, or
// dispenserCount + len(cities) > width*height.
// Complexity: O(W×H + C×D).
func New(width, height int, cities []grid.Coordinate, dispenserCount int, rng *rand.Rand) (*World, error) {
	w, err := newEmpty(width, height, cities, dispenserCount)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(defaultSeed))
	}

	// Candidate cells in row-major order keep the draw reproducible.
	free := make([]grid.Coordinate, 0, w.bounds.Cells()-len(w.cities))
	var idx int
	for idx = 0; idx < w.bounds.Cells(); idx++ {
		c := w.bounds.Coordinate(idx)
		if _, taken := w.occupied[c]; !taken {
			free = append(free, c)
		}
	}

	// Partial Fisher–Yates: the first dispenserCount slots become the sample.
	var k, j int
	for k = 0; k < dispenserCount; k++ {
		j = k + rng.Intn(len(free)-k)
		free[k], free[j] = free[j], free[k]
	}
	w.place(Solution(free[:dispenserCount]).Clone())

	return w, nil
}

// NewFromSolution constructs a World whose dispensers sit at sol.
// Configuration checks are those of New; sol must additionally fit the
// board (see ApplySolution).
func NewFromSolution(width, height int, cities []grid.Coordinate, sol Solution) (*World, error) {
	w, err := newEmpty(width, height, cities, len(sol))
	if err != nil {
		return nil, err
	}
	if err = w.ApplySolution(sol); err != nil {
		return nil, err
	}

	return w, nil
}

// newEmpty validates the configuration and returns a World holding only cities.
func newEmpty(width, height int, cities []grid.Coordinate, dispenserCount int) (*World, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: grid %dx%d must be at least 1x1", ErrInvalidConfiguration, width, height)
	}
	if dispenserCount < 1 {
		return nil, fmt.Errorf("%w: need at least one dispenser, got %d", ErrInvalidConfiguration, dispenserCount)
	}
	b := grid.Bounds{Height: height, Width: width}
	if dispenserCount+len(cities) > b.Cells() {
		return nil, fmt.Errorf("%w: %d cities and %d dispensers do not fit a %dx%d grid",
			ErrInvalidConfiguration, len(cities), dispenserCount, width, height)
	}

	w := &World{
		bounds:   b,
		cities:   make([]grid.Coordinate, len(cities)),
		occupied: make(map[grid.Coordinate]struct{}, len(cities)+dispenserCount),
		nearest:  make([]int, len(cities)),
		dist:     make([]int, len(cities)),
	}
	copy(w.cities, cities)
	for _, c := range w.cities {
		if !b.Contains(c) {
			return nil, fmt.Errorf("%w: city %v outside %dx%d grid", ErrInvalidConfiguration, c, width, height)
		}
		if _, dup := w.occupied[c]; dup {
			return nil, fmt.Errorf("%w: duplicate city at %v", ErrInvalidConfiguration, c)
		}
		w.occupied[c] = struct{}{}
	}

	return w, nil
}

// place installs sol as the dispenser set (taking ownership), adds it to
// the occupancy set and rebuilds the fitness cache.
// The caller guarantees sol fits the board.
func (w *World) place(sol Solution) {
	w.dispensers = sol
	for _, c := range sol {
		w.occupied[c] = struct{}{}
	}
	w.rebuildCache()
}

// Width returns the number of columns.
func (w *World) Width() int { return w.bounds.Width }

// Height returns the number of rows.
func (w *World) Height() int { return w.bounds.Height }

// Bounds returns the board geometry.
func (w *World) Bounds() grid.Bounds { return w.bounds }

// Cities returns a copy of the city coordinates.
func (w *World) Cities() []grid.Coordinate {
	out := make([]grid.Coordinate, len(w.cities))
	copy(out, w.cities)
	return out
}

// DispenserCount returns the number of dispensers.
func (w *World) DispenserCount() int { return len(w.dispensers) }

// Dispenser returns the coordinate of dispenser i.
func (w *World) Dispenser(i int) grid.Coordinate { return w.dispensers[i] }

// Occupied reports whether c is held by a city or a dispenser.
func (w *World) Occupied(c grid.Coordinate) bool {
	_, ok := w.occupied[c]
	return ok
}

// Solution returns the current placement ordered by dispenser index.
func (w *World) Solution() Solution {
	return Solution(w.dispensers).Clone()
}

// ApplySolution replaces every dispenser with sol (in order), rebuilds the
// occupancy set and recomputes fitness. It is meant for restoring a
// previously recorded placement.
//
// Returns ErrInvalidSolution, leaving the world untouched, if len(sol)
// differs from DispenserCount (when the world already has dispensers), or a
// coordinate is out of bounds, on a city, or repeated.
// Complexity: O(C×D).
func (w *World) ApplySolution(sol Solution) error {
	if w.dispensers != nil && len(sol) != len(w.dispensers) {
		return fmt.Errorf("%w: %d coordinates for %d dispensers", ErrInvalidSolution, len(sol), len(w.dispensers))
	}
	if len(sol) == 0 {
		return fmt.Errorf("%w: empty solution", ErrInvalidSolution)
	}

	occ := make(map[grid.Coordinate]struct{}, len(w.cities)+len(sol))
	for _, c := range w.cities {
		occ[c] = struct{}{}
	}
	for i, c := range sol {
		if !w.bounds.Contains(c) {
			return fmt.Errorf("%w: dispenser %d at %v is outside the grid", ErrInvalidSolution, i, c)
		}
		if _, taken := occ[c]; taken {
			return fmt.Errorf("%w: dispenser %d at %v overlaps an occupied cell", ErrInvalidSolution, i, c)
		}
		occ[c] = struct{}{}
	}

	w.occupied = occ
	w.dispensers = sol.Clone()
	w.rebuildCache()

	return nil
}

// MoveDispenser moves dispenser i to c. If c is occupied (or off the board)
// it returns false and the world is unchanged; this is an expected outcome,
// not an error. Otherwise the occupancy set and fitness are updated and it
// returns true.
func (w *World) MoveDispenser(i int, c grid.Coordinate) bool {
	if !w.bounds.Contains(c) {
		return false
	}
	if _, taken := w.occupied[c]; taken {
		return false
	}
	delete(w.occupied, w.dispensers[i])
	w.dispensers[i] = c
	w.occupied[c] = struct{}{}
	w.updateCache(i)

	return true
}

// Fitness returns the cached total distance from every city to its
// nearest dispenser. Lower is better; zero is optimal when reachable.
func (w *World) Fitness() int { return w.total }

// String summarizes the world on one line.
func (w *World) String() string {
	return fmt.Sprintf("size:%dx%d total distance:%d cities:%d dispensers:%d",
		w.bounds.Width, w.bounds.Height, w.total, len(w.cities), len(w.dispensers))
}
