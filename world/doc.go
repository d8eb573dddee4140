// Package world models the board the optimizer searches over: a fixed set
// of cities (demand points), a fixed number of movable dispensers (supply
// points), the occupancy set of every held cell, and the cached fitness.
//
// What:
//
//   - New samples an initial dispenser placement from city-free cells using
//     a caller-owned *rand.Rand, so a fixed seed replays the same start.
//   - MoveDispenser relocates one dispenser if the target cell is free.
//   - Solution / ApplySolution snapshot and restore the placement.
//   - Fitness is Σ over cities of the Manhattan distance to the nearest
//     dispenser; lower is better.
//
// Fitness maintenance:
//
//   - A per-city cache holds the nearest dispenser and its distance.
//   - On a move, cities whose nearest dispenser moved are rescanned,
//     every other city only compares against the moved dispenser.
//   - Recompute is the naive O(C×D) reference; Validate asserts that the
//     cache and the cached total agree with it.
//
// Complexity:
//
//   - New:           O(W×H + C×D) time, O(W×H) memory.
//   - MoveDispenser: O(C) typical, O(C×D) worst case.
//   - ApplySolution: O(C×D).
//   - Recompute:     O(C×D).
//
// Errors:
//
//   - ErrInvalidConfiguration: the board cannot hold the requested entities.
//   - ErrInvalidSolution: a snapshot does not fit this world.
//   - ErrInvariantViolation: internal bookkeeping is corrupt (Validate only).
//
// Occupied targets are not errors: MoveDispenser simply reports false.
package world
