// Package anneal searches for dispenser placements that minimize the total
// Manhattan distance from every city to its nearest dispenser, using
// simulated annealing over a world.World (or any Board).
//
// What:
//
//   - Propose draws a candidate cell for one dispenser; the step range
//     shrinks with the cooling ratio 1 − iteration/total.
//   - Accept applies the Metropolis rule: a move that worsens fitness by Δ
//     is kept with probability exp(−Δ/T); improving moves always are.
//   - Run drives the chain for a fixed iteration budget, rolls back rejected
//     moves, tracks the best placement and restarts from it after
//     RestartThreshold accepted moves without improvement.
//
// Two temperatures:
//
//   - The cooling ratio only scales proposal step sizes.
//   - The acceptance temperature decays geometrically
//     (T ← max(MinAcceptTemperature, Decay·T)) and only scales Accept.
//
// Determinism:
//
//   - All randomness comes from one caller-owned *rand.Rand (see NewRNG).
//     The same seed, board and Options replay the same run bit for bit.
//   - math/rand.Rand is NOT goroutine-safe; a run owns its stream.
//
// Options (defaults in DefaultOptions):
//
//   - Iterations: 10000, AcceptTemperature: 10, MinAcceptTemperature: 4,
//     Decay: 0.9998, RestartThreshold: 25, ReportEvery: 100.
//
// Errors:
//
//   - ErrBadIterations, ErrBadTemperature, ErrBadDecay,
//     ErrBadRestartThreshold, ErrBadReportEvery, ErrUnknownProposal:
//     rejected Options; the board is not touched.
//   - ErrNilBoard, ErrNoDispensers: the board cannot be searched at all.
//   - ErrRollbackFailed: a rejected move could not be undone; the occupancy
//     bookkeeping is corrupt and the run halts.
//   - ErrInvariantViolation: Options.CheckInvariants found corrupt state.
//   - ctx.Err(): the run was cancelled; the partial Result is still valid.
//
// Complexity: O(Iterations × cost(MoveDispenser)).
package anneal
