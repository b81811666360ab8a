// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/katalvlaran/ntransport/config"
	"github.com/katalvlaran/ntransport/driver"
	"github.com/katalvlaran/ntransport/logging"
	"github.com/katalvlaran/ntransport/solver"
)

// solveFlags holds the command-line overrides of the solve command.
type solveFlags struct {
	configPath string
	kind       string
	tol        float64
	maxIters   int
	mode       string
	parallel   bool
	trace      bool
	metrics    bool
}

func newSolveCmd() *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a multigroup problem described in YAML",
		Long: `Loads the problem, applies WGS_* environment overrides and then the
flags given on the command line, and runs the outer iteration:

  fixed  Gauss-Seidel over groups (or Jacobi with --parallel)
  eigen  power iteration on k with loosened inner tolerances

Examples:
  wgsolve solve --config slab.yaml
  wgsolve solve --config slab.yaml --solver livolant --tol 1e-10
  wgsolve solve --config core.yaml --mode eigen --trace`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "problem YAML file (required)")
	fl.StringVar(&f.kind, "solver", "", "within-group solver: si, livolant or gmres")
	fl.Float64Var(&f.tol, "tol", 0, "inner convergence tolerance")
	fl.IntVar(&f.maxIters, "max-iters", 0, "inner iteration cap")
	fl.StringVar(&f.mode, "mode", "", "outer mode: fixed or eigen")
	fl.BoolVar(&f.parallel, "parallel", false, "solve groups concurrently (Jacobi, fixed mode only)")
	fl.BoolVar(&f.trace, "trace", false, "export spans to stderr")
	fl.BoolVar(&f.metrics, "metrics", false, "print solver metrics after the run")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// resolve merges file, environment and changed flags, then validates.
func resolve(cmd *cobra.Command, f *solveFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	if err = cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	fl := cmd.Flags()
	if fl.Changed("solver") {
		cfg.Solver.Kind = f.kind
	}
	if fl.Changed("tol") {
		cfg.Solver.Tolerance = f.tol
	}
	if fl.Changed("max-iters") {
		cfg.Solver.MaxIterations = f.maxIters
	}
	if fl.Changed("mode") {
		cfg.Outer.Mode = f.mode
	}
	if fl.Changed("parallel") {
		cfg.Outer.Parallel = f.parallel
	}

	return cfg, cfg.Validate()
}

func runSolve(cmd *cobra.Command, f *solveFlags) error {
	cfg, err := resolve(cmd, f)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runID := uuid.NewString()
	log := cfg.Logger(logging.Config{Writer: cmd.ErrOrStderr()}).With(slog.String("run_id", runID))

	if f.trace {
		shutdown, err := installTracing(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	prob, err := cfg.Build()
	if err != nil {
		return err
	}
	kind := cfg.Kind()
	sopts := cfg.SolverOptions(log, solver.DefaultMetrics())
	dopts := cfg.DriverOptions(log)
	log.Info("solve start",
		slog.String("solver", kind.String()),
		slog.String("mode", cfg.Outer.Mode),
		slog.Int("groups", prob.Library.NumGroups()),
		slog.Int("cells", prob.Mesh.NumCells()),
	)

	var rep driver.Report
	switch {
	case cfg.Outer.Mode == config.ModeEigen:
		s, err := solver.New(kind, prob.Setup, sopts...)
		if err != nil {
			return err
		}
		rep, err = driver.PowerIteration(ctx, s, prob.Fission, prob.State, dopts...)
		if err != nil {
			return err
		}
	case cfg.Outer.Parallel:
		factory := func() (solver.Solver, error) { return solver.New(kind, prob.Setup, sopts...) }
		rep, err = driver.Jacobi(ctx, factory, prob.State, dopts...)
		if err != nil {
			return err
		}
	default:
		s, err := solver.New(kind, prob.Setup, sopts...)
		if err != nil {
			return err
		}
		rep, err = driver.GaussSeidel(ctx, s, prob.State, dopts...)
		if err != nil {
			return err
		}
	}
	if !rep.Converged {
		log.Warn("outer iteration did not converge",
			slog.Int("outers", rep.Outers),
			slog.Float64("flux_change", rep.FluxChange),
		)
	}

	printSummary(cmd.OutOrStdout(), runID, cfg, prob, rep)
	if f.metrics {
		return dumpMetrics(cmd.OutOrStdout(), prometheus.DefaultGatherer)
	}

	return nil
}

// installTracing routes the global tracer provider to a pretty-printing
// stdout exporter on w.
func installTracing(w io.Writer) (func(context.Context) error, error) {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint(), stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("wgsolve: trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// printSummary writes one line per group: integrated flux, extrema and the
// last inner result.
func printSummary(w io.Writer, runID string, cfg config.Config, prob *config.Problem, rep driver.Report) {
	fmt.Fprintf(w, "run %s: %s, %s mode, %d outers, converged=%t, flux change %.3e\n",
		runID, cfg.Kind(), cfg.Outer.Mode, rep.Outers, rep.Converged, rep.FluxChange)
	if cfg.Outer.Mode == config.ModeEigen {
		fmt.Fprintf(w, "k = %.8f\n", rep.Eigenvalue)
	}
	fmt.Fprintf(w, "%5s %14s %14s %14s %6s %9s\n", "group", "integral", "min", "max", "iters", "converged")
	for g := 0; g < prob.Library.NumGroups(); g++ {
		phi := prob.State.Flux(g)
		var total float64
		lo, hi := phi[0], phi[0]
		for c, v := range phi {
			total += v * prob.Mesh.Width(c)
			lo, hi = min(lo, v), max(hi, v)
		}
		var res solver.Result
		if g < len(rep.Groups) {
			res = rep.Groups[g]
		}
		fmt.Fprintf(w, "%5d %14.6e %14.6e %14.6e %6d %9t\n", g, total, lo, hi, res.Iterations, res.Converged)
	}
	if rep.Warnings > 0 {
		fmt.Fprintf(w, "%d inner solves hit their iteration cap\n", rep.Warnings)
	}
}

// dumpMetrics writes every family gathered from reg in the Prometheus text format.
func dumpMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("wgsolve: gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("wgsolve: write metrics: %w", err)
		}
	}

	return nil
}
