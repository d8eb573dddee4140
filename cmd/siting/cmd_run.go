package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/siting/anneal"
	"github.com/katalvlaran/siting/internal/config"
	"github.com/katalvlaran/siting/internal/logging"
	"github.com/katalvlaran/siting/internal/progress"
	"github.com/katalvlaran/siting/world"
	"github.com/katalvlaran/siting/worldfile"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <world-file>",
		Short: "Anneal a world file and print the best placement",
		Long: `Anneal a world file and print the best placement found.

Settings come from the configuration file, then SITING_* environment
variables, then the flags below. Interrupting the run (Ctrl-C) stops the
search and still reports the best placement seen so far.

Examples:
  siting run world.txt
  siting run world.txt --seed 7 --iterations 50000
  siting run world.txt --runs 8 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, cfg)
			if err = cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			spec, err := worldfile.ParseFile(args[0])
			if err != nil {
				return err
			}

			log, done := logging.New(cfg.Logging, cmd.ErrOrStderr())
			defer done()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			rep, err := search(ctx, spec, cfg, log)
			if err != nil {
				return err
			}
			rep.World = args[0]

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			return printReport(cmd.OutOrStdout(), rep)
		},
	}

	cmd.Flags().Int64("seed", 0, "Random seed (0 selects the fixed default)")
	cmd.Flags().Int("iterations", 0, "Iterations per run")
	cmd.Flags().Int("restart-threshold", 0, "Accepted non-improving moves before restoring the best placement (0 disables)")
	cmd.Flags().Int("report-every", 0, "Progress period in iterations (0 disables)")
	cmd.Flags().String("proposal", "", "Move proposal: step or uniform")
	cmd.Flags().Bool("check-invariants", false, "Validate the board after every move (slow)")
	cmd.Flags().Int("runs", 0, "Independent runs; the best placement wins")

	return cmd
}

// applyRunFlags overrides cfg with the run flags that were set explicitly.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("seed") {
		cfg.Search.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("iterations") {
		cfg.Search.Iterations, _ = f.GetInt("iterations")
	}
	if f.Changed("restart-threshold") {
		cfg.Search.RestartThreshold, _ = f.GetInt("restart-threshold")
	}
	if f.Changed("report-every") {
		cfg.Search.ReportEvery, _ = f.GetInt("report-every")
	}
	if f.Changed("proposal") {
		cfg.Search.Proposal, _ = f.GetString("proposal")
	}
	if f.Changed("check-invariants") {
		cfg.Search.CheckInvariants, _ = f.GetBool("check-invariants")
	}
	if f.Changed("runs") {
		cfg.Search.Runs, _ = f.GetInt("runs")
	}
}

// position is the JSON form of a grid coordinate.
type position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// runReport is the outcome of the best run.
type runReport struct {
	World       string           `json:"world"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Cities      int              `json:"cities"`
	Dispensers  int              `json:"dispensers"`
	Seed        int64            `json:"seed"`
	Runs        int              `json:"runs"`
	BestRun     int              `json:"best_run"`
	Interrupted bool             `json:"interrupted"`
	Result      resultView       `json:"result"`
	Solution    []position       `json:"solution"`
	Grid        string           `json:"grid"`
	Summary     string           `json:"summary"`
	Dropped     int              `json:"dropped_reports"`
	Trace       []progress.Point `json:"trace,omitempty"`
}

type resultView struct {
	InitialFitness   int     `json:"initial_fitness"`
	BestFitness      int     `json:"best_fitness"`
	Iterations       int     `json:"iterations"`
	Accepted         int     `json:"accepted"`
	Improvements     int     `json:"improvements"`
	InvalidProposals int     `json:"invalid_proposals"`
	OccupiedMoves    int     `json:"occupied_moves"`
	Rollbacks        int     `json:"rollbacks"`
	Restarts         int     `json:"restarts"`
	FinalTemperature float64 `json:"final_temperature"`
}

// search performs cfg.Search.Runs sequential runs over fresh worlds built
// from the parsed world and reports the best one. A single run uses the seeded stream
// directly; multi-start runs each get a derived stream.
func search(ctx context.Context, spec worldfile.Spec, cfg *config.Config, log *zap.Logger) (*runReport, error) {
	opts, err := cfg.Search.Options()
	if err != nil {
		return nil, err
	}
	rep := progress.NewReporter(log, cfg.Progress)
	opts.Observer = rep.Observer()

	base := anneal.NewRNG(cfg.Search.Seed)
	var (
		bestWorld *world.World
		bestRes   anneal.Result
		bestRun   = -1
	)
	interrupted := false

	var run int
	for run = 0; run < cfg.Search.Runs; run++ {
		rng := base
		if cfg.Search.Runs > 1 {
			rng = anneal.DeriveRNG(base, uint64(run))
		}
		w, err := spec.Build(rng)
		if err != nil {
			return nil, err
		}

		rep.StartRun(run)
		res, err := anneal.Run(ctx, w, rng, opts)
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("run %d: %w", run, err)
		}
		rep.Finish(res)
		if bestRun < 0 || res.BestFitness < bestRes.BestFitness {
			bestWorld, bestRes, bestRun = w, res, run
		}
		if err != nil {
			log.Warn("search interrupted", zap.Int("run", run), zap.Int("best", bestRes.BestFitness))
			interrupted = true
			break
		}
	}

	out := &runReport{
		Width:       spec.Width,
		Height:      spec.Height,
		Cities:      len(spec.Cities),
		Dispensers:  spec.Dispensers,
		Seed:        cfg.Search.Seed,
		Runs:        cfg.Search.Runs,
		BestRun:     bestRun,
		Interrupted: interrupted,
		Result: resultView{
			InitialFitness:   bestRes.InitialFitness,
			BestFitness:      bestRes.BestFitness,
			Iterations:       bestRes.Iterations,
			Accepted:         bestRes.Accepted,
			Improvements:     bestRes.Improvements,
			InvalidProposals: bestRes.InvalidProposals,
			OccupiedMoves:    bestRes.OccupiedMoves,
			Rollbacks:        bestRes.Rollbacks,
			Restarts:         bestRes.Restarts,
			FinalTemperature: bestRes.FinalTemperature,
		},
		Grid:    bestWorld.GridString(),
		Summary: bestWorld.String(),
		Dropped: rep.Dropped(),
		Trace:   rep.Trace(),
	}
	for _, c := range bestRes.Best {
		out.Solution = append(out.Solution, position{Row: c.Row, Col: c.Col})
	}

	return out, nil
}

func printReport(w io.Writer, r *runReport) error {
	res := r.Result
	fmt.Fprintf(w, "%s\n", r.Summary)
	if r.Interrupted {
		fmt.Fprintln(w, "search interrupted; showing best placement so far")
	}
	fmt.Fprintf(w, "best fitness: %d (initial %d, run %d of %d)\n", res.BestFitness, res.InitialFitness, r.BestRun+1, r.Runs)
	fmt.Fprintf(w, "iterations: %d  accepted: %d  improvements: %d  restarts: %d\n",
		res.Iterations, res.Accepted, res.Improvements, res.Restarts)
	fmt.Fprintf(w, "invalid: %d  occupied: %d  rollbacks: %d  final temperature: %.4f\n",
		res.InvalidProposals, res.OccupiedMoves, res.Rollbacks, res.FinalTemperature)
	fmt.Fprint(w, "solution:")
	for _, p := range r.Solution {
		fmt.Fprintf(w, " (%d,%d)", p.Row, p.Col)
	}
	fmt.Fprintln(w)
	_, err := fmt.Fprint(w, r.Grid)
	return err
}
