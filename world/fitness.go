package world

import "github.com/katalvlaran/siting/grid"

// Recompute returns the fitness computed from scratch: for each city the
// minimum Manhattan distance over all dispensers, summed. It never mutates
// the world and is the reference the incremental cache must match.
// Complexity: O(C×D).
func (w *World) Recompute() int {
	total := 0
	for _, city := range w.cities {
		_, d := closest(city, w.dispensers)
		total += d
	}
	return total
}

// closest returns the lowest index of a dispenser nearest to city and its
// distance. dispensers must be non-empty.
func closest(city grid.Coordinate, dispensers []grid.Coordinate) (int, int) {
	best, bestDist := 0, grid.Manhattan(city, dispensers[0])
	var i, d int
	for i = 1; i < len(dispensers); i++ {
		d = grid.Manhattan(city, dispensers[i])
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// rebuildCache recomputes nearest, dist and total for every city.
func (w *World) rebuildCache() {
	w.total = 0
	for ci, city := range w.cities {
		w.nearest[ci], w.dist[ci] = closest(city, w.dispensers)
		w.total += w.dist[ci]
	}
}

// updateCache refreshes the cache after dispenser moved has changed position.
// A city served by moved keeps it if it got no farther, otherwise it is
// rescanned; any other city switches to moved only on a strict improvement.
func (w *World) updateCache(moved int) {
	pos := w.dispensers[moved]
	var d, old int
	for ci, city := range w.cities {
		d = grid.Manhattan(city, pos)
		old = w.dist[ci]
		if w.nearest[ci] == moved {
			if d > old {
				w.nearest[ci], w.dist[ci] = closest(city, w.dispensers)
			} else {
				w.dist[ci] = d
			}
		} else if d < old {
			w.nearest[ci], w.dist[ci] = moved, d
		}
		w.total += w.dist[ci] - old
	}
}
