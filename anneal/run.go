package anneal

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/siting/grid"
	"github.com/katalvlaran/siting/world"
)

// proposeFunc is the common shape of Propose and ProposeUniform.
type proposeFunc func(*rand.Rand, grid.Coordinate, grid.Bounds, float64) (grid.Coordinate, bool)

// Run anneals b for opts.Iterations steps using rng as the only source of
// randomness, then applies the best placement found to b.
//
// Per iteration i (cooling ratio 1 − i/Iterations):
//  1. ctx is checked; on cancellation the best placement is applied and the
//     partial Result is returned with ctx.Err().
//  2. Every ReportEvery iterations the Observer receives a Progress.
//  3. The acceptance temperature decays: T ← max(MinAcceptTemperature, Decay·T).
//  4. A dispenser is chosen uniformly and a candidate proposed; off-board
//     candidates count as InvalidProposals, occupied ones as OccupiedMoves.
//  5. The move is applied and judged by Accept(current − new, T, draw).
//     Accepted moves update current and best; after RestartThreshold
//     accepted moves without a new best the board is restored to the best
//     placement. Rejected moves are rolled back; a failed rollback halts the
//     run with ErrRollbackFailed.
//
// A nil rng uses NewRNG(0). A nil board returns ErrNilBoard and a board
// reporting no dispensers returns ErrNoDispensers, both before any work.
func Run(ctx context.Context, b Board, rng *rand.Rand, opts Options) (Result, error) {
	if b == nil {
		return Result{}, ErrNilBoard
	}
	if n := b.DispenserCount(); n < 1 {
		return Result{}, fmt.Errorf("%w: count %d", ErrNoDispensers, n)
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if rng == nil {
		rng = NewRNG(0)
	}

	r := &runner{
		board:       b,
		rng:         rng,
		opts:        opts,
		propose:     Propose,
		bounds:      b.Bounds(),
		temperature: opts.AcceptTemperature,
	}
	if opts.Proposal == UniformProposal {
		r.propose = ProposeUniform
	}
	r.current = b.Fitness()
	r.best = r.current
	r.bestSol = b.Solution()
	r.res.InitialFitness = r.current

	if err := r.check("initial state"); err != nil {
		return r.result(), err
	}

	var i int
	for i = 0; i < opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return r.finish(err)
		}
		r.res.Iterations++
		r.report(i)
		if err := r.step(i); err != nil {
			return r.result(), err
		}
	}

	return r.finish(nil)
}

// runner carries the state of one annealing run across iterations.
type runner struct {
	board   Board
	rng     *rand.Rand
	opts    Options
	propose proposeFunc
	bounds  grid.Bounds

	current     int
	best        int
	bestSol     world.Solution
	temperature float64
	stale       int // accepted moves since the last new best

	res Result
}

// step executes iteration i of the protocol.
func (r *runner) step(i int) error {
	r.temperature = math.Max(r.opts.MinAcceptTemperature, r.opts.Decay*r.temperature)
	cooling := 1 - float64(i)/float64(r.opts.Iterations)

	idx := r.rng.Intn(r.board.DispenserCount())
	from := r.board.Dispenser(idx)
	to, ok := r.propose(r.rng, from, r.bounds, cooling)
	if !ok {
		r.res.InvalidProposals++
		return nil
	}
	if !r.board.MoveDispenser(idx, to) {
		r.res.OccupiedMoves++
		return nil
	}
	if err := r.check("move"); err != nil {
		return err
	}

	candidate := r.board.Fitness()
	if !Accept(r.current-candidate, r.temperature, r.rng.Float64()) {
		if !r.board.MoveDispenser(idx, from) {
			return fmt.Errorf("%w: iteration %d: dispenser %d cannot return from %v to %v",
				ErrRollbackFailed, i, idx, to, from)
		}
		r.res.Rollbacks++
		return r.check("rollback")
	}

	r.res.Accepted++
	r.current = candidate
	if r.current < r.best {
		r.best = r.current
		r.bestSol = r.board.Solution()
		r.res.Improvements++
		r.stale = 0
		return nil
	}

	r.stale++
	if r.opts.RestartThreshold > 0 && r.stale >= r.opts.RestartThreshold {
		if err := r.board.ApplySolution(r.bestSol); err != nil {
			return fmt.Errorf("%w: restart at iteration %d: %w", ErrInvariantViolation, i, err)
		}
		r.current = r.best
		r.res.Restarts++
		r.stale = 0
		return r.check("restart")
	}

	return nil
}

// report hands a Progress to the Observer every ReportEvery iterations.
func (r *runner) report(i int) {
	if r.opts.Observer == nil || r.opts.ReportEvery == 0 || i%r.opts.ReportEvery != 0 {
		return
	}
	r.opts.Observer(Progress{
		Iteration:    i,
		Total:        r.opts.Iterations,
		Current:      r.current,
		Best:         r.best,
		Temperature:  r.temperature,
		CoolingRatio: 1 - float64(i)/float64(r.opts.Iterations),
	})
}

// check validates the board when CheckInvariants is set.
func (r *runner) check(stage string) error {
	if !r.opts.CheckInvariants {
		return nil
	}
	if err := r.board.Validate(); err != nil {
		return fmt.Errorf("%w: after %s: %w", ErrInvariantViolation, stage, err)
	}
	return nil
}

// finish applies the best placement and returns the final Result with cause.
func (r *runner) finish(cause error) (Result, error) {
	if err := r.board.ApplySolution(r.bestSol); err != nil {
		return r.result(), fmt.Errorf("%w: restoring best placement: %w", ErrInvariantViolation, err)
	}
	if err := r.check("final restore"); err != nil {
		return r.result(), err
	}
	return r.result(), cause
}

// result snapshots the counters together with the best placement.
func (r *runner) result() Result {
	res := r.res
	res.Best = r.bestSol.Clone()
	res.BestFitness = r.best
	res.FinalTemperature = r.temperature
	return res
}
