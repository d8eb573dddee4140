// Package siting places a fixed number of dispensers on a rectangular grid
// so that the sum, over all cities, of the Manhattan distance to the
// nearest dispenser is as small as possible, using simulated annealing.
//
// 🚀 What is siting?
//
//	A small, deterministic optimizer built from four library packages:
//		• grid:      coordinates, bounds and Manhattan distance
//		• world:     board state with an incrementally maintained fitness
//		• anneal:    move proposals, Metropolis acceptance and the search loop
//		• worldfile: the plain-text world format ("{w}x{h} {d}" + rows of 'P')
//
// ✨ Guarantees
//
//   - Reproducible – one seeded *rand.Rand drives a whole run
//   - Honest fitness – the cached total always equals the naive recompute
//   - Cancellable – Run checks its context once per iteration and still
//     hands back the best placement
//   - Quiet libraries – only the command logs; packages return sentinel errors
//
// Layout:
//
//	grid/               Coordinate, Bounds, Manhattan
//	world/              World, Solution, Validate, GridString
//	anneal/             Propose, Accept, Run, Options, RNG helpers
//	worldfile/          Parse, Format, Random
//	internal/config     YAML + environment configuration
//	internal/logging    zap console logger with rotated JSON file sink
//	internal/progress   rate-limited progress reporter and fitness trace
//	cmd/siting          run / validate / generate / version
//	examples/           runnable scenarios
//
// Quick ASCII example (P city, d dispenser):
//
//	P . . . P
//	. . d . .
//	P . . . P
//
// Four cities, one dispenser in the centre: fitness 4×3 = 12.
//
//	go install github.com/katalvlaran/siting/cmd/siting@latest
package siting
