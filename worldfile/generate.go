package worldfile

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/katalvlaran/siting/grid"
	"github.com/katalvlaran/siting/world"
)

// Random returns a width×height Spec with cities placed uniformly at
// distinct cells drawn from rng. Cities are listed in row-major order.
//
// Returns world.ErrInvalidConfiguration if the board is degenerate,
// dispensers < 1, cities < 0, or cities + dispensers exceed the board.
// Complexity: O(W×H).
func Random(rng *rand.Rand, width, height, cities, dispensers int) (Spec, error) {
	if width < 1 || height < 1 || dispensers < 1 || cities < 0 {
		return Spec{}, fmt.Errorf("%w: %dx%d board with %d cities and %d dispensers",
			world.ErrInvalidConfiguration, width, height, cities, dispensers)
	}
	b := grid.Bounds{Height: height, Width: width}
	if cities+dispensers > b.Cells() {
		return Spec{}, fmt.Errorf("%w: %d cities and %d dispensers do not fit a %dx%d grid",
			world.ErrInvalidConfiguration, cities, dispensers, width, height)
	}

	idx := rng.Perm(b.Cells())[:cities]
	sort.Ints(idx)
	out := Spec{Width: width, Height: height, Dispensers: dispensers, Cities: make([]grid.Coordinate, cities)}
	for i, v := range idx {
		out.Cities[i] = b.Coordinate(v)
	}

	return out, nil
}
