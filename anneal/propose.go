package anneal

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/siting/grid"
)

// Propose draws a candidate cell for a dispenser at current.
//
// Each axis gets an independent magnitude and sign:
//
//	rowStep ∈ [1, max(round(Height·coolingRatio), 1)]
//	colStep ∈ [1, max(round(Width·coolingRatio), 1)]
//	candidate = current + (±rowStep, ±colStep)
//
// coolingRatio is expected in (0, 1]. If the candidate falls off the board
// the proposal is invalid and ok is false; callers count it and move on.
//
// Complexity: O(1); exactly four draws from rng.
func Propose(rng *rand.Rand, current grid.Coordinate, b grid.Bounds, coolingRatio float64) (c grid.Coordinate, ok bool) {
	rowStep := 1 + rng.Intn(stepLimit(b.Height, coolingRatio))
	colStep := 1 + rng.Intn(stepLimit(b.Width, coolingRatio))
	c = current.Add(rowStep*sign(rng), colStep*sign(rng))
	if !b.Contains(c) {
		return grid.Coordinate{}, false
	}
	return c, true
}

// ProposeUniform draws any cell of the board uniformly; current and
// coolingRatio are ignored. The result is always in bounds but may be
// occupied or equal to current.
//
// Complexity: O(1); exactly two draws from rng.
func ProposeUniform(rng *rand.Rand, _ grid.Coordinate, b grid.Bounds, _ float64) (grid.Coordinate, bool) {
	return grid.Coordinate{Row: rng.Intn(b.Height), Col: rng.Intn(b.Width)}, true
}

// stepLimit returns max(round(extent·ratio), 1).
func stepLimit(extent int, ratio float64) int {
	n := int(math.Round(float64(extent) * ratio))
	if n < 1 {
		return 1
	}
	return n
}

// sign returns +1 or −1 with equal probability.
func sign(rng *rand.Rand) int {
	if rng.Intn(2) == 0 {
		return 1
	}
	return -1
}
