package world

import (
	"fmt"

	"github.com/katalvlaran/siting/grid"
)

// Validate checks every bookkeeping invariant of the world:
//
//   - every city and dispenser lies within bounds;
//   - no coordinate is held twice and the occupancy set holds exactly
//     |cities| + |dispensers| cells, each of them an entity position;
//   - the per-city cache names a nearest dispenser at the minimum distance;
//   - the cached fitness equals Recompute().
//
// Any failure wraps ErrInvariantViolation. Complexity: O(C×D).
func (w *World) Validate() error {
	if len(w.dispensers) == 0 {
		return fmt.Errorf("%w: no dispensers", ErrInvariantViolation)
	}

	seen := make(map[grid.Coordinate]struct{}, len(w.cities)+len(w.dispensers))
	check := func(kind string, i int, c grid.Coordinate) error {
		if !w.bounds.Contains(c) {
			return fmt.Errorf("%w: %s %d at %v outside the grid", ErrInvariantViolation, kind, i, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %s %d at %v shares a cell", ErrInvariantViolation, kind, i, c)
		}
		if _, ok := w.occupied[c]; !ok {
			return fmt.Errorf("%w: %s %d at %v missing from occupancy", ErrInvariantViolation, kind, i, c)
		}
		seen[c] = struct{}{}
		return nil
	}
	for i, c := range w.cities {
		if err := check("city", i, c); err != nil {
			return err
		}
	}
	for i, c := range w.dispensers {
		if err := check("dispenser", i, c); err != nil {
			return err
		}
	}
	if want := len(w.cities) + len(w.dispensers); len(w.occupied) != want {
		return fmt.Errorf("%w: occupancy holds %d cells, want %d", ErrInvariantViolation, len(w.occupied), want)
	}

	sum := 0
	for ci, city := range w.cities {
		_, d := closest(city, w.dispensers)
		if w.dist[ci] != d {
			return fmt.Errorf("%w: city %d cached distance %d, nearest is %d", ErrInvariantViolation, ci, w.dist[ci], d)
		}
		n := w.nearest[ci]
		if n < 0 || n >= len(w.dispensers) || grid.Manhattan(city, w.dispensers[n]) != d {
			return fmt.Errorf("%w: city %d cached nearest dispenser %d is not at distance %d", ErrInvariantViolation, ci, n, d)
		}
		sum += d
	}
	if w.total != sum {
		return fmt.Errorf("%w: cached fitness %d, recomputed %d", ErrInvariantViolation, w.total, sum)
	}

	return nil
}
