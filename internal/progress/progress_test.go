package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/siting/anneal"
	"github.com/katalvlaran/siting/grid"
	"github.com/katalvlaran/siting/internal/config"
	"github.com/katalvlaran/siting/world"
)

func newObserved(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

func TestReporter_Unthrottled(t *testing.T) {
	log, logs := newObserved(zapcore.InfoLevel)
	r := NewReporter(log, config.ProgressConfig{TraceLimit: 100})

	for i := 0; i < 5; i++ {
		r.Observe(anneal.Progress{Iteration: i * 10, Total: 50, Current: 9 - i, Best: 9 - i, Temperature: 10})
	}

	assert.Equal(t, 5, logs.FilterMessage("progress").Len())
	assert.Zero(t, r.Dropped())
	require.Len(t, r.Trace(), 5)
	assert.Equal(t, 40, r.Trace()[4].Iteration)
}

func TestReporter_ThrottledStillTraces(t *testing.T) {
	log, logs := newObserved(zapcore.InfoLevel)
	// One line per ~3 hours: only the burst gets through.
	r := NewReporter(log, config.ProgressConfig{PerSecond: 0.0001, Burst: 2, TraceLimit: 100})

	for i := 0; i < 10; i++ {
		r.Observe(anneal.Progress{Iteration: i, Best: 100 - i})
	}

	assert.Equal(t, 2, logs.FilterMessage("progress").Len())
	assert.Equal(t, 8, r.Dropped())
	assert.Len(t, r.Trace(), 10)
}

// TestReporter_TraceKeepsImprovementsOnly: flat or worse samples after the
// first one of a run are logged but not traced.
func TestReporter_TraceKeepsImprovementsOnly(t *testing.T) {
	log, logs := newObserved(zapcore.InfoLevel)
	r := NewReporter(log, config.ProgressConfig{TraceLimit: 100})

	for i, best := range []int{9, 9, 7, 8, 7, 3, 3} {
		r.Observe(anneal.Progress{Iteration: i, Best: best})
	}
	assert.Equal(t, 7, logs.FilterMessage("progress").Len())

	trace := r.Trace()
	require.Len(t, trace, 3)
	assert.Equal(t, []int{0, 2, 5}, []int{trace[0].Iteration, trace[1].Iteration, trace[2].Iteration})

	// A new run always contributes its first sample, even if it is worse.
	r.StartRun(1)
	r.Observe(anneal.Progress{Iteration: 0, Best: 50})
	r.Observe(anneal.Progress{Iteration: 1, Best: 50})
	trace = r.Trace()
	require.Len(t, trace, 4)
	assert.Equal(t, 1, trace[3].Run)
	assert.Equal(t, 50, trace[3].Best)
}

// TestReporter_TraceLimit: a long run with steady improvement stays within
// the limit and the last point is the latest best.
func TestReporter_TraceLimit(t *testing.T) {
	log, _ := newObserved(zapcore.InfoLevel)
	r := NewReporter(log, config.ProgressConfig{TraceLimit: 3})

	for i := 0; i < 10000; i++ {
		r.Observe(anneal.Progress{Iteration: i, Best: 100000 - i})
	}

	trace := r.Trace()
	require.Len(t, trace, 3)
	assert.Equal(t, 0, trace[0].Iteration)
	assert.Equal(t, 1, trace[1].Iteration)
	assert.Equal(t, 9999, trace[2].Iteration)
	assert.Equal(t, 100000-9999, trace[2].Best)
	assert.Equal(t, 10000-3, r.Overwritten())
}

func TestReporter_TraceDisabled(t *testing.T) {
	log, logs := newObserved(zapcore.InfoLevel)
	r := NewReporter(log, config.ProgressConfig{})

	r.Observe(anneal.Progress{Best: 5})
	r.Observe(anneal.Progress{Best: 4})
	assert.Empty(t, r.Trace())
	assert.Equal(t, 2, logs.FilterMessage("progress").Len())
}

func TestReporter_TraceIsCopy(t *testing.T) {
	log, _ := newObserved(zapcore.InfoLevel)
	r := NewReporter(log, config.ProgressConfig{TraceLimit: 10})
	r.Observe(anneal.Progress{Best: 4})

	tr := r.Trace()
	tr[0].Best = 99
	assert.Equal(t, 4, r.Trace()[0].Best)
}

func TestReporter_WithRun(t *testing.T) {
	log, logs := newObserved(zapcore.DebugLevel)
	r := NewReporter(log, config.ProgressConfig{TraceLimit: 100})

	rng := anneal.NewRNG(3)
	cities := []grid.Coordinate{{Row: 0, Col: 0}, {Row: 4, Col: 4}, {Row: 0, Col: 4}}
	w, err := world.New(5, 5, cities, 2, rng)
	require.NoError(t, err)

	r.StartRun(2)
	opts := anneal.NewOptions(anneal.WithIterations(300), anneal.WithObserver(50, r.Observer()))
	res, err := anneal.Run(context.Background(), w, rng, opts)
	require.NoError(t, err)
	r.Finish(res)

	assert.Equal(t, 6, logs.FilterMessage("progress").Len()) // iterations 0, 50, ..., 250
	trace := r.Trace()
	require.NotEmpty(t, trace)
	assert.Equal(t, 0, trace[0].Iteration)
	assert.Equal(t, res.InitialFitness, trace[0].Best)
	for i, p := range trace {
		assert.Equal(t, 2, p.Run)
		assert.Zero(t, p.Iteration%50)
		if i > 0 {
			assert.Less(t, p.Best, trace[i-1].Best)
		}
	}

	assert.Equal(t, 1, logs.FilterMessage("run started").Len())
	finished := logs.FilterMessage("run finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(res.BestFitness), finished[0].ContextMap()["best"])
}
