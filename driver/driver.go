// SPDX-License-Identifier: MIT

package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/ntransport/convergence"
	"github.com/katalvlaran/ntransport/solver"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("ntransport.driver")

var (
	// ErrNilInput indicates a nil solver, factory, state or fission source.
	ErrNilInput = errors.New("driver: nil input")

	// ErrNoFission indicates zero fission production in an eigenvalue problem.
	ErrNoFission = errors.New("driver: zero fission production")
)

// FluxReader is the read view of the per-group flux.
type FluxReader interface {
	NumGroups() int
	Flux(g int) []float64
}

// Factory builds an independent solver instance for one concurrent task.
type Factory func() (solver.Solver, error)

// Report summarizes an outer-iteration run.
type Report struct {
	// Outers is the number of outer passes performed.
	Outers int
	// Converged reports that every outer criterion was met.
	Converged bool
	// FluxChange is the largest relative group-flux change of the last pass.
	FluxChange float64
	// Eigenvalue is the final k (PowerIteration only).
	Eigenvalue float64
	// Groups holds the inner results of the last pass, indexed by group.
	Groups []solver.Result
	// Warnings counts inner solves that ended with a convergence warning.
	Warnings int
}

// GaussSeidel repeats ordered group passes until the largest group-flux change
// of a pass is within tolerance.
//
// Errors:
//   - ErrNilInput, ctx errors, solver errors (wrapped with the group index).
func GaussSeidel(ctx context.Context, s solver.Solver, st FluxReader, opts ...Option) (Report, error) {
	if s == nil || st == nil {
		return Report{}, fmt.Errorf("driver.GaussSeidel: %w", ErrNilInput)
	}
	o := gatherOptions(opts...)
	ctx, span := tracer.Start(ctx, "driver.GaussSeidel", trace.WithAttributes(
		attribute.String("solver.kind", s.Kind().String()),
		attribute.Int("groups", st.NumGroups()),
	))
	defer span.End()

	var rep Report
	for outer := 1; outer <= o.MaxOuter; outer++ {
		change, err := gaussSeidelPass(ctx, s, st, outer, &rep)
		if err != nil {
			return rep, fail(span, fmt.Errorf("driver.GaussSeidel: %w", err))
		}
		rep.Outers, rep.FluxChange = outer, change
		o.Logger.Info("outer iteration",
			slog.Int("outer", outer), slog.Float64("flux_change", change), slog.Int("warnings", rep.Warnings))
		if change <= o.Tolerance {
			rep.Converged = true
			break
		}
	}
	span.SetAttributes(attribute.Int("outers", rep.Outers), attribute.Bool("converged", rep.Converged))
	span.SetStatus(codes.Ok, "")

	return rep, nil
}

// gaussSeidelPass solves every group once in order and returns the largest
// relative flux change.
func gaussSeidelPass(ctx context.Context, s solver.Solver, st FluxReader, outer int, rep *Report) (float64, error) {
	ctx, span := tracer.Start(ctx, "driver.outer", trace.WithAttributes(attribute.Int("outer", outer)))
	defer span.End()

	groups := st.NumGroups()
	rep.Groups = make([]solver.Result, groups)
	var change float64
	for g := 0; g < groups; g++ {
		if err := ctx.Err(); err != nil {
			return 0, fail(span, err)
		}
		old := st.Flux(g)
		res, err := solveGroup(ctx, s, g, true)
		if err != nil {
			return 0, fail(span, err)
		}
		rep.Groups[g] = res
		if res.Warning != nil {
			rep.Warnings++
		}
		d, err := convergence.FluxError(old, st.Flux(g), convergence.DefaultErrorFloor)
		if err != nil {
			return 0, fail(span, err)
		}
		change = max(change, d)
	}
	span.SetAttributes(attribute.Float64("flux_change", change))

	return change, nil
}

// solveGroup optionally builds the fixed source, then solves g under a span.
func solveGroup(ctx context.Context, s solver.Solver, g int, build bool) (solver.Result, error) {
	_, span := tracer.Start(ctx, "driver.group", trace.WithAttributes(attribute.Int("group", g)))
	defer span.End()

	if build {
		if err := s.BuildFixedSource(g); err != nil {
			return solver.Result{}, fail(span, fmt.Errorf("group %d: %w", g, err))
		}
	}
	res, err := s.Solve(g)
	if err != nil {
		return res, fail(span, fmt.Errorf("group %d: %w", g, err))
	}
	span.SetAttributes(
		attribute.Int("iterations", res.Iterations),
		attribute.Int("sweeps", res.Sweeps),
		attribute.Float64("error", res.Error),
		attribute.Bool("converged", res.Converged),
	)
	if res.Warning != nil {
		span.AddEvent("not converged")
	}

	return res, nil
}

// Jacobi runs two-phase parallel passes with one solver instance per group.
//
// Implementation:
//   - Stage 1: build one instance per group via factory.
//   - Stage 2 (per pass): build every fixed source concurrently from the
//     previous pass's flux, wait, then solve every group concurrently.
//
// Errors:
//   - ErrNilInput, ctx errors, factory and solver errors.
func Jacobi(ctx context.Context, factory Factory, st FluxReader, opts ...Option) (Report, error) {
	if factory == nil || st == nil {
		return Report{}, fmt.Errorf("driver.Jacobi: %w", ErrNilInput)
	}
	o := gatherOptions(opts...)
	groups := st.NumGroups()
	ctx, span := tracer.Start(ctx, "driver.Jacobi", trace.WithAttributes(
		attribute.Int("groups", groups),
		attribute.Int("parallelism", o.Parallelism),
	))
	defer span.End()

	// Stage 1: per-task instances.
	solvers := make([]solver.Solver, groups)
	for g := range solvers {
		s, err := factory()
		if err != nil {
			return Report{}, fail(span, fmt.Errorf("driver.Jacobi: factory: %w", err))
		}
		if s == nil {
			return Report{}, fail(span, fmt.Errorf("driver.Jacobi: factory: %w", ErrNilInput))
		}
		solvers[g] = s
	}

	var rep Report
	for outer := 1; outer <= o.MaxOuter; outer++ {
		old := make([][]float64, groups)
		for g := range old {
			old[g] = st.Flux(g)
		}

		// Stage 2a: fixed sources from the previous pass.
		eg, egCtx := errgroup.WithContext(ctx)
		if o.Parallelism > 0 {
			eg.SetLimit(o.Parallelism)
		}
		for g := 0; g < groups; g++ {
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				if err := solvers[g].BuildFixedSource(g); err != nil {
					return fmt.Errorf("group %d: %w", g, err)
				}

				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return rep, fail(span, fmt.Errorf("driver.Jacobi: build: %w", err))
		}

		// Stage 2b: solves.
		results := make([]solver.Result, groups)
		eg, egCtx = errgroup.WithContext(ctx)
		if o.Parallelism > 0 {
			eg.SetLimit(o.Parallelism)
		}
		for g := 0; g < groups; g++ {
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				res, err := solveGroup(egCtx, solvers[g], g, false)
				results[g] = res

				return err
			})
		}
		if err := eg.Wait(); err != nil {
			return rep, fail(span, fmt.Errorf("driver.Jacobi: solve: %w", err))
		}

		var change float64
		for g := 0; g < groups; g++ {
			if results[g].Warning != nil {
				rep.Warnings++
			}
			d, err := convergence.FluxError(old[g], st.Flux(g), convergence.DefaultErrorFloor)
			if err != nil {
				return rep, fail(span, fmt.Errorf("driver.Jacobi: %w", err))
			}
			change = max(change, d)
		}
		rep.Outers, rep.FluxChange, rep.Groups = outer, change, results
		o.Logger.Info("outer iteration",
			slog.String("driver", "jacobi"), slog.Int("outer", outer), slog.Float64("flux_change", change))
		if change <= o.Tolerance {
			rep.Converged = true
			break
		}
	}
	span.SetAttributes(attribute.Int("outers", rep.Outers), attribute.Bool("converged", rep.Converged))
	span.SetStatus(codes.Ok, "")

	return rep, nil
}

// fail records err on span and returns it.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
