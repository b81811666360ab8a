// SPDX-License-Identifier: MIT

package driver

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/ntransport/fission"
	"github.com/katalvlaran/ntransport/solver"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FissionControl is the part of the fission source the eigenvalue loop drives.
// The solver's source builder must read the same fission source.
type FissionControl interface {
	Update(flux fission.FluxReader) error
	SetScale(scale float64) error
	Production() float64
}

var _ FissionControl = (*fission.Source)(nil)

// EigenState is the flux store plus the eigenvalue estimate.
type EigenState interface {
	FluxReader
	Eigenvalue() float64
	SetEigenvalue(k float64) error
}

// PowerIteration solves the k-eigenvalue problem with Gauss–Seidel passes.
//
// Implementation:
//   - Stage 1: F ← fission(φ), P ← Production(F); k from the state.
//   - Stage 2 (per outer): scale fission by 1/k; set the inner tolerance to
//     max(target, loosening·outerErr); run one Gauss–Seidel pass.
//   - Stage 3: F ← fission(φ), k ← k·P_new/P_old; stop when the relative
//     k change and the flux change are within tolerance and the inner
//     tolerance is back at its target.
//
// The inner limits are restored to (InnerMaxIters, InnerTolerance) on return.
//
// Errors:
//   - ErrNilInput, ErrNoFission, ctx errors, solver and fission errors.
func PowerIteration(ctx context.Context, s solver.Solver, fis FissionControl, st EigenState, opts ...Option) (Report, error) {
	if s == nil || fis == nil || st == nil {
		return Report{}, fmt.Errorf("driver.PowerIteration: %w", ErrNilInput)
	}
	o := gatherOptions(opts...)
	ctx, span := tracer.Start(ctx, "driver.PowerIteration", trace.WithAttributes(
		attribute.String("solver.kind", s.Kind().String()),
		attribute.Int("groups", st.NumGroups()),
	))
	defer span.End()
	defer func() { _ = s.Reset(o.InnerMaxIters, o.InnerTolerance) }()

	// Stage 1: initial production.
	if err := fis.Update(st); err != nil {
		return Report{}, fail(span, fmt.Errorf("driver.PowerIteration: %w", err))
	}
	prod := fis.Production()
	if !(prod > 0) {
		return Report{}, fail(span, fmt.Errorf("driver.PowerIteration: %w", ErrNoFission))
	}
	k := st.Eigenvalue()
	rep := Report{Eigenvalue: k}
	outerErr := 1.0

	for outer := 1; outer <= o.MaxOuter; outer++ {
		// Stage 2: scaled fission and loosened inner tolerance.
		if err := fis.SetScale(1 / k); err != nil {
			return rep, fail(span, fmt.Errorf("driver.PowerIteration: %w", err))
		}
		innerTol := math.Max(o.InnerTolerance, o.Loosening*outerErr)
		if err := s.Reset(o.InnerMaxIters, innerTol); err != nil {
			return rep, fail(span, fmt.Errorf("driver.PowerIteration: %w", err))
		}
		change, err := gaussSeidelPass(ctx, s, st, outer, &rep)
		if err != nil {
			return rep, fail(span, fmt.Errorf("driver.PowerIteration: %w", err))
		}

		// Stage 3: eigenvalue update.
		if err = fis.Update(st); err != nil {
			return rep, fail(span, fmt.Errorf("driver.PowerIteration: %w", err))
		}
		next := fis.Production()
		if !(next > 0) {
			return rep, fail(span, fmt.Errorf("driver.PowerIteration: outer %d: %w", outer, ErrNoFission))
		}
		kNew := k * next / prod
		kErr := math.Abs(kNew-k) / kNew
		k, prod = kNew, next
		if err = st.SetEigenvalue(k); err != nil {
			return rep, fail(span, fmt.Errorf("driver.PowerIteration: %w", err))
		}
		outerErr = math.Max(kErr, change)
		rep.Outers, rep.FluxChange, rep.Eigenvalue = outer, change, k

		o.Logger.Info("power iteration",
			slog.Int("outer", outer),
			slog.Float64("k", k),
			slog.Float64("k_change", kErr),
			slog.Float64("flux_change", change),
			slog.Float64("inner_tolerance", innerTol),
		)
		if kErr <= o.EigenTolerance && change <= o.Tolerance && innerTol <= o.InnerTolerance {
			rep.Converged = true
			break
		}
	}
	span.SetAttributes(
		attribute.Int("outers", rep.Outers),
		attribute.Float64("k", rep.Eigenvalue),
		attribute.Bool("converged", rep.Converged),
	)
	span.SetStatus(codes.Ok, "")

	return rep, nil
}
