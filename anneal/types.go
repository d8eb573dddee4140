package anneal

import (
	"errors"

	"github.com/katalvlaran/siting/grid"
	"github.com/katalvlaran/siting/world"
)

// Sentinel errors returned by the annealing run.
var (
	// ErrBadIterations indicates Iterations < 1.
	ErrBadIterations = errors.New("anneal: Iterations must be positive")

	// ErrBadTemperature indicates a non-positive acceptance temperature or
	// a floor above the starting temperature.
	ErrBadTemperature = errors.New("anneal: acceptance temperatures must satisfy 0 < MinAcceptTemperature <= AcceptTemperature")

	// ErrBadDecay indicates Decay outside (0, 1].
	ErrBadDecay = errors.New("anneal: Decay must be in (0, 1]")

	// ErrBadRestartThreshold indicates RestartThreshold < 0.
	ErrBadRestartThreshold = errors.New("anneal: RestartThreshold must be non-negative")

	// ErrBadReportEvery indicates ReportEvery < 0.
	ErrBadReportEvery = errors.New("anneal: ReportEvery must be non-negative")

	// ErrUnknownProposal indicates an unsupported Proposal strategy.
	ErrUnknownProposal = errors.New("anneal: unknown proposal strategy")

	// ErrRollbackFailed indicates a rejected move could not be reverted
	// because the vacated cell was occupied: the bookkeeping is corrupt.
	ErrRollbackFailed = errors.New("anneal: rollback failed")

	// ErrNilBoard indicates Run received a nil Board.
	ErrNilBoard = errors.New("anneal: board is nil")

	// ErrNoDispensers indicates Run received a Board without dispensers.
	ErrNoDispensers = errors.New("anneal: board has no dispensers")

	// ErrInvariantViolation indicates CheckInvariants found corrupt board state.
	ErrInvariantViolation = errors.New("anneal: board invariant violated")
)

// MinTemperatureFloor keeps the acceptance temperature strictly positive
// regardless of the configured schedule.
const MinTemperatureFloor = 1e-9

// Proposal selects how a candidate cell is drawn for the chosen dispenser.
type Proposal int

const (
	// StepProposal jumps by a random signed step on each axis whose range
	// shrinks with the cooling ratio (see Propose).
	StepProposal Proposal = iota

	// UniformProposal draws any cell uniformly, ignoring the current
	// position and the cooling ratio (see ProposeUniform).
	UniformProposal
)

// String returns the strategy name used in configuration files.
func (p Proposal) String() string {
	switch p {
	case StepProposal:
		return "step"
	case UniformProposal:
		return "uniform"
	}
	return "unknown"
}

// ParseProposal maps "step" / "uniform" to a Proposal.
func ParseProposal(s string) (Proposal, error) {
	switch s {
	case "step", "":
		return StepProposal, nil
	case "uniform":
		return UniformProposal, nil
	}
	return 0, ErrUnknownProposal
}

// Board is the mutable state a run searches over. *world.World implements it.
type Board interface {
	Bounds() grid.Bounds
	DispenserCount() int
	Dispenser(i int) grid.Coordinate
	MoveDispenser(i int, c grid.Coordinate) bool
	Fitness() int
	Solution() world.Solution
	ApplySolution(sol world.Solution) error
	Validate() error
}

// Progress is the snapshot handed to an Observer.
type Progress struct {
	Iteration    int     // zero-based index of the iteration about to run
	Total        int     // iteration budget
	Current      int     // fitness of the current (accepted) state
	Best         int     // best fitness seen so far
	Temperature  float64 // acceptance temperature
	CoolingRatio float64 // proposal step scale, 1 − Iteration/Total
}

// Observer receives periodic Progress reports. It runs on the search
// goroutine and must not block; rate-limit or hand off inside it.
type Observer func(Progress)

// Result summarizes a run. Each executed iteration is counted in exactly
// one of InvalidProposals, OccupiedMoves, Accepted and Rollbacks.
type Result struct {
	Best             world.Solution // best placement found; applied to the board on return
	BestFitness      int
	InitialFitness   int
	Iterations       int // iterations executed (less than the budget only on cancellation)
	Accepted         int // moves kept by the Metropolis rule
	Improvements     int // accepted moves that set a new best
	InvalidProposals int // proposals that fell off the board
	OccupiedMoves    int // proposals onto an occupied cell
	Rollbacks        int // rejected moves reverted
	Restarts         int // restore-to-best events
	FinalTemperature float64
}

// Options configures Run. Use DefaultOptions or NewOptions as a base.
type Options struct {
	Iterations           int      // fixed iteration budget (> 0)
	AcceptTemperature    float64  // starting acceptance temperature (> 0)
	MinAcceptTemperature float64  // floor of the geometric decay (0 < floor ≤ start)
	Decay                float64  // per-iteration multiplier in (0, 1]
	RestartThreshold     int      // accepted non-improving moves before restore-to-best; 0 disables
	ReportEvery          int      // Observer period in iterations; 0 disables reports
	Proposal             Proposal // candidate strategy
	CheckInvariants      bool     // validate the board after every mutation (tests, debugging)
	Observer             Observer // optional progress callback
}

// Option represents a functional option for configuring Run.
type Option func(*Options)

// WithIterations sets the iteration budget.
func WithIterations(n int) Option {
	return func(o *Options) { o.Iterations = n }
}

// WithTemperature sets the starting acceptance temperature and its floor.
func WithTemperature(start, floor float64) Option {
	return func(o *Options) {
		o.AcceptTemperature = start
		o.MinAcceptTemperature = floor
	}
}

// WithDecay sets the geometric decay of the acceptance temperature.
func WithDecay(decay float64) Option {
	return func(o *Options) { o.Decay = decay }
}

// WithRestartThreshold sets the number of accepted non-improving moves that
// trigger a restore-to-best. 0 disables restarts.
func WithRestartThreshold(n int) Option {
	return func(o *Options) { o.RestartThreshold = n }
}

// WithObserver installs a progress callback invoked every n iterations.
func WithObserver(every int, obs Observer) Option {
	return func(o *Options) {
		o.ReportEvery = every
		o.Observer = obs
	}
}

// WithProposal selects the candidate strategy.
func WithProposal(p Proposal) Option {
	return func(o *Options) { o.Proposal = p }
}

// WithInvariantChecks validates the board after every mutation.
func WithInvariantChecks() Option {
	return func(o *Options) { o.CheckInvariants = true }
}

// DefaultOptions returns the stock tuning:
//
//   - Iterations:           10000
//   - AcceptTemperature:    10
//   - MinAcceptTemperature: 4
//   - Decay:                0.9998
//   - RestartThreshold:     25
//   - ReportEvery:          100 (no Observer installed)
//   - Proposal:             StepProposal
func DefaultOptions() Options {
	return Options{
		Iterations:           10000,
		AcceptTemperature:    10,
		MinAcceptTemperature: 4,
		Decay:                0.9998,
		RestartThreshold:     25,
		ReportEvery:          100,
		Proposal:             StepProposal,
	}
}

// NewOptions applies opts on top of DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Validate checks Options for internal consistency.
//
// Complexity: O(1).
func (o Options) Validate() error {
	if o.Iterations < 1 {
		return ErrBadIterations
	}
	if !(o.MinAcceptTemperature > 0) || o.AcceptTemperature < o.MinAcceptTemperature {
		return ErrBadTemperature
	}
	if !(o.Decay > 0) || o.Decay > 1 {
		return ErrBadDecay
	}
	if o.RestartThreshold < 0 {
		return ErrBadRestartThreshold
	}
	if o.ReportEvery < 0 {
		return ErrBadReportEvery
	}
	switch o.Proposal {
	case StepProposal, UniformProposal:
	default:
		return ErrUnknownProposal
	}

	return nil
}
