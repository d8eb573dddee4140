package anneal_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/siting/anneal"
	"github.com/katalvlaran/siting/grid"
	"github.com/katalvlaran/siting/world"
)

// BenchmarkRun measures a default-tuned 10 000-iteration run on a 60×60
// board with 120 cities and 12 dispensers.
func BenchmarkRun(b *testing.B) {
	bounds := grid.Bounds{Height: 60, Width: 60}
	perm := anneal.NewRNG(7).Perm(bounds.Cells())
	cities := make([]grid.Coordinate, 120)
	for i := range cities {
		cities[i] = bounds.Coordinate(perm[i])
	}
	opts := anneal.DefaultOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng := anneal.NewRNG(int64(i + 1))
		w, err := world.New(bounds.Width, bounds.Height, cities, 12, rng)
		if err != nil {
			b.Fatalf("world.New failed: %v", err)
		}
		if _, err = anneal.Run(context.Background(), w, rng, opts); err != nil {
			b.Fatalf("Run failed: %v", err)
		}
	}
}

// BenchmarkPropose measures a single step proposal.
func BenchmarkPropose(b *testing.B) {
	rng := anneal.NewRNG(1)
	bounds := grid.Bounds{Height: 100, Width: 100}
	from := grid.Coordinate{Row: 50, Col: 50}
	for i := 0; i < b.N; i++ {
		anneal.Propose(rng, from, bounds, 0.5)
	}
}
