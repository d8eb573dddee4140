package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/siting/internal/config"
	"github.com/katalvlaran/siting/worldfile"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeWorld(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const sampleWorld = `8x5 2
P.......
......P.
........
.P......
.......P
`

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "siting version "+version+"\n", out)

	out, _, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, version, got["version"])
}

func TestRunCmd_JSON(t *testing.T) {
	path := writeWorld(t, sampleWorld)
	out, _, err := execute(t, "run", path, "--json", "--seed", "7", "--iterations", "2000",
		"--report-every", "500", "--log-level", "error", "--check-invariants")
	require.NoError(t, err)

	var rep runReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, path, rep.World)
	assert.Equal(t, 8, rep.Width)
	assert.Equal(t, 5, rep.Height)
	assert.Equal(t, 4, rep.Cities)
	assert.Equal(t, 1, rep.Runs)
	assert.Equal(t, 0, rep.BestRun)
	assert.False(t, rep.Interrupted)
	assert.Equal(t, 2000, rep.Result.Iterations)
	assert.LessOrEqual(t, rep.Result.BestFitness, rep.Result.InitialFitness)
	assert.Len(t, rep.Solution, 2)
	require.NotEmpty(t, rep.Trace)
	assert.LessOrEqual(t, len(rep.Trace), 4) // reports at 0, 500, 1000, 1500
	assert.Equal(t, 0, rep.Trace[0].Iteration)
	assert.Equal(t, rep.Result.InitialFitness, rep.Trace[0].Best)
	assert.Equal(t, 5, strings.Count(rep.Grid, "\n"))
	assert.Equal(t, 2, strings.Count(rep.Grid, "d"))
	assert.Equal(t, 4, strings.Count(rep.Grid, "P"))

	// Same seed, same outcome.
	again, _, err := execute(t, "run", path, "--json", "--seed", "7", "--iterations", "2000",
		"--report-every", "500", "--log-level", "error", "--check-invariants")
	require.NoError(t, err)
	var rep2 runReport
	require.NoError(t, json.Unmarshal([]byte(again), &rep2))
	assert.Equal(t, rep.Solution, rep2.Solution)
	assert.Equal(t, rep.Result, rep2.Result)
}

func TestRunCmd_MultiStart(t *testing.T) {
	path := writeWorld(t, sampleWorld)
	out, _, err := execute(t, "run", path, "--json", "--runs", "3", "--iterations", "300",
		"--proposal", "uniform", "--log-level", "error")
	require.NoError(t, err)

	var rep runReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 3, rep.Runs)
	assert.GreaterOrEqual(t, rep.BestRun, 0)
	assert.Less(t, rep.BestRun, 3)

	runs := make(map[int]bool)
	for _, p := range rep.Trace {
		runs[p.Run] = true
	}
	assert.Len(t, runs, 3)
}

func TestRunCmd_Text(t *testing.T) {
	path := writeWorld(t, sampleWorld)
	out, stderr, err := execute(t, "run", path, "--iterations", "200", "--report-every", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "size:8x5")
	assert.Contains(t, out, "best fitness:")
	assert.Contains(t, out, "solution:")
	assert.Contains(t, stderr, "progress")
	assert.Contains(t, stderr, "run finished")
}

func TestRunCmd_Errors(t *testing.T) {
	_, _, err := execute(t, "run")
	require.Error(t, err)

	_, _, err = execute(t, "run", writeWorld(t, "8x5 2\nP..\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, _, err = execute(t, "run", writeWorld(t, sampleWorld), "--proposal", "spiral")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, _, err = execute(t, "run", writeWorld(t, sampleWorld), "--runs", "0")
	require.Error(t, err)

	// Header parses, but three dispensers and four cities do not fit 2x2.
	_, _, err = execute(t, "run", writeWorld(t, "2x2 3\nPP\nPP\n"), "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("search:\n  iterations: 123\n  report_every: 0\nlogging:\n  level: error\n"), 0o600))

	out, _, err := execute(t, "run", writeWorld(t, sampleWorld), "--config", cfgPath, "--json")
	require.NoError(t, err)
	var rep runReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 123, rep.Result.Iterations)
	assert.Empty(t, rep.Trace)

	// Flags win over the file.
	out, _, err = execute(t, "run", writeWorld(t, sampleWorld), "--config", cfgPath, "--json", "--iterations", "50")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 50, rep.Result.Iterations)
}

func TestValidateCmd(t *testing.T) {
	path := writeWorld(t, sampleWorld)
	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "cities:4 dispensers:2")

	out, _, err = execute(t, "validate", path, "--json", "--seed", "2")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["valid"])
	assert.Equal(t, float64(2), got["dispensers"])

	_, _, err = execute(t, "validate", writeWorld(t, "8x 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestGenerateCmd(t *testing.T) {
	out, _, err := execute(t, "generate", "--width", "6", "--height", "4", "--cities", "5", "--dispensers", "2", "--seed", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "6x4 2", lines[0])
	assert.Equal(t, 5, strings.Count(out, "P"))

	// Written files validate and are reproducible.
	path := filepath.Join(t.TempDir(), "gen.txt")
	_, _, err = execute(t, "generate", "--width", "6", "--height", "4", "--cities", "5", "--dispensers", "2", "--seed", "3", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))

	_, _, err = execute(t, "validate", path)
	require.NoError(t, err)

	_, _, err = execute(t, "generate", "--width", "2", "--height", "2", "--cities", "4")
	require.Error(t, err)
}

// TestSearch_Interrupted: a cancelled context stops the multi-start loop
// after the first run and still reports its (initial) placement.
func TestSearch_Interrupted(t *testing.T) {
	spec, err := worldfile.ParseString(sampleWorld)
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Search.Runs = 3

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	core, logs := observer.New(zapcore.InfoLevel)

	rep, err := search(ctx, spec, cfg, zap.New(core))
	require.NoError(t, err)
	assert.True(t, rep.Interrupted)
	assert.Equal(t, 0, rep.BestRun)
	assert.Equal(t, 3, rep.Runs)
	assert.Zero(t, rep.Result.Iterations)
	assert.Equal(t, rep.Result.InitialFitness, rep.Result.BestFitness)
	assert.Len(t, rep.Solution, spec.Dispensers)
	assert.Equal(t, spec.Dispensers, strings.Count(rep.Grid, "d"))
	assert.Empty(t, rep.Trace)

	assert.Equal(t, 1, logs.FilterMessage("run finished").Len())
	assert.Equal(t, 1, logs.FilterMessage("search interrupted").Len())
}

// TestRunCmd_Interrupted: an interrupted run exits cleanly and says so.
func TestRunCmd_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := writeWorld(t, sampleWorld)

	out, stderr, err := executeContext(t, ctx, "run", path, "--iterations", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "search interrupted; showing best placement so far")
	assert.Contains(t, out, "solution:")
	assert.Contains(t, stderr, "search interrupted")

	out, _, err = executeContext(t, ctx, "run", path, "--json", "--log-level", "error")
	require.NoError(t, err)
	var rep runReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.Interrupted)
	assert.Zero(t, rep.Result.Iterations)
}
