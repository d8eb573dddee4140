// Package progress turns anneal progress snapshots into throttled log lines
// and keeps the best-fitness trace of a run.
package progress

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/katalvlaran/siting/anneal"
	"github.com/katalvlaran/siting/internal/config"
)

// Point is one sample of the fitness trace.
type Point struct {
	Run         int     `json:"run"`
	Iteration   int     `json:"iteration"`
	Current     int     `json:"current"`
	Best        int     `json:"best"`
	Temperature float64 `json:"temperature"`
}

// Reporter receives anneal.Progress on the search goroutine. Logging is
// rate limited with Allow so a slow sink never stalls the loop.
//
// The trace holds the first sample of each run and every sample that
// lowers that run's best fitness, at most TraceLimit points. Once full, the
// last point is overwritten so the trace always ends at the latest best.
// A Reporter is not safe for concurrent use.
type Reporter struct {
	log     *zap.Logger
	limiter *rate.Limiter
	limit   int

	run      int
	sampled  bool // a point of the current run is in the trace
	lastBest int

	trace      []Point
	dropped    int
	overwrites int
}

// NewReporter returns a Reporter logging to log at most cfg.PerSecond lines
// per second (bursts of cfg.Burst). PerSecond <= 0 disables throttling.
func NewReporter(log *zap.Logger, cfg config.ProgressConfig) *Reporter {
	limit := rate.Inf
	if cfg.PerSecond > 0 {
		limit = rate.Limit(cfg.PerSecond)
	}
	return &Reporter{
		log:     log,
		limiter: rate.NewLimiter(limit, max(1, cfg.Burst)),
		limit:   max(0, cfg.TraceLimit),
	}
}

// StartRun tags subsequent samples with run (multi-start index).
func (r *Reporter) StartRun(run int) {
	r.run = run
	r.sampled = false
	r.log.Debug("run started", zap.Int("run", run))
}

// Observe records p if it improves the run's best and logs it if the
// limiter allows.
func (r *Reporter) Observe(p anneal.Progress) {
	r.record(p)
	if !r.limiter.Allow() {
		r.dropped++
		return
	}
	r.log.Info("progress",
		zap.Int("run", r.run),
		zap.Int("iteration", p.Iteration),
		zap.Int("total", p.Total),
		zap.Int("current", p.Current),
		zap.Int("best", p.Best),
		zap.Float64("temperature", p.Temperature),
		zap.Float64("cooling", p.CoolingRatio),
	)
}

func (r *Reporter) record(p anneal.Progress) {
	if r.sampled && p.Best >= r.lastBest {
		return
	}
	r.sampled = true
	r.lastBest = p.Best
	if r.limit == 0 {
		return
	}

	pt := Point{
		Run:         r.run,
		Iteration:   p.Iteration,
		Current:     p.Current,
		Best:        p.Best,
		Temperature: p.Temperature,
	}
	if len(r.trace) < r.limit {
		r.trace = append(r.trace, pt)
		return
	}
	r.trace[len(r.trace)-1] = pt
	r.overwrites++
}

// Observer adapts r to anneal.Observer.
func (r *Reporter) Observer() anneal.Observer { return r.Observe }

// Finish logs the outcome of the current run.
func (r *Reporter) Finish(res anneal.Result) {
	r.log.Info("run finished",
		zap.Int("run", r.run),
		zap.Int("best", res.BestFitness),
		zap.Int("initial", res.InitialFitness),
		zap.Int("iterations", res.Iterations),
		zap.Int("accepted", res.Accepted),
		zap.Int("improvements", res.Improvements),
		zap.Int("invalid", res.InvalidProposals),
		zap.Int("occupied", res.OccupiedMoves),
		zap.Int("rollbacks", res.Rollbacks),
		zap.Int("restarts", res.Restarts),
		zap.Float64("final_temperature", res.FinalTemperature),
	)
}

// Trace returns a copy of the recorded points in arrival order.
func (r *Reporter) Trace() []Point {
	out := make([]Point, len(r.trace))
	copy(out, r.trace)
	return out
}

// Dropped reports how many samples were not logged because of throttling.
func (r *Reporter) Dropped() int { return r.dropped }

// Overwritten reports how many trace points were replaced after the trace
// reached its limit.
func (r *Reporter) Overwritten() int { return r.overwrites }
