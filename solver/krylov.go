// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/ntransport/convergence"
	"github.com/katalvlaran/ntransport/krylov"
	"github.com/katalvlaran/ntransport/matrix"
	"gonum.org/v1/gonum/floats"
)

// Krylov solves the group equation with restarted GMRES.
type Krylov struct {
	base
}

var _ Solver = (*Krylov)(nil)

// Restart returns the GMRES subspace dimension.
func (k *Krylov) Restart() int { return k.opts.KrylovRestart }

// Solve solves (I − D·Sweep·M·S)·φ = D·Sweep(q_fixed) from the stored flux of g.
//
// Implementation:
//   - Stage 1: b = D·Sweep(q_fixed) (one sweep).
//   - Stage 2: GMRES with A·x = x − D·Sweep(M·(σs,gg ∘ x)), restart m, the
//     monitor tolerance as relative residual and the monitor cap as the step budget.
//   - Stage 3: on ErrBreakdown, continue with source iteration from the last
//     finite iterate for the remaining budget.
//
// Result.Iterations counts Krylov steps (plus fallback steps); Result.Sweeps
// counts every sweep. Convergence is judged on Result.Residual; Result.Error
// is the flux change between the stored flux and the GMRES solution, so it
// compares directly with the fixed-point kernels.
//
// Errors:
//   - ErrGroupOutOfRange, ErrFixedSourceMissing, ErrNonFinite, collaborator errors.
func (k *Krylov) Solve(g int) (Result, error) {
	res := Result{Group: g}
	fixed, phi, err := k.prepare(g)
	if err != nil {
		return res, err
	}

	// Stage 1: right-hand side.
	rhs, err := k.sweep(g, fixed)
	res.Sweeps++
	if err != nil {
		return k.finish(g, phi, &res, err)
	}

	// Stage 2: GMRES.
	op := func(x []float64) ([]float64, error) {
		q, err := k.setup.sources.ScatterSource(g, x)
		if err != nil {
			return nil, err
		}
		y, err := k.sweep(g, q)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(x))
		floats.SubTo(out, x, y)

		return out, nil
	}
	maxIters, tol := k.monitor.MaxIterations(), k.monitor.Tolerance()
	x, kr, err := krylov.GMRES(op, rhs, phi,
		krylov.WithRestart(k.opts.KrylovRestart),
		krylov.WithTolerance(tol),
		krylov.WithMaxIterations(maxIters),
	)
	res.Sweeps += kr.Applications
	res.Iterations = kr.Iterations
	res.Residual, res.Error = kr.Residual, kr.Residual

	// Stage 3: degrade on breakdown.
	if errors.Is(err, krylov.ErrBreakdown) {
		k.opts.Metrics.fallback()
		k.log.Warn("gmres breakdown, falling back to source iteration",
			slog.Int("group", g), slog.Int("iterations", kr.Iterations), slog.Any("err", err))
		seed := phi
		if x != nil && matrix.ValidateFiniteVec(x) == nil {
			seed = x
		}
		phi, err = k.iterate(g, fixed, seed, kr.Iterations, false, &res)
		// No budget left for the fallback loop.
		if err == nil && res.Warning == nil && !res.Converged {
			res.Warning = k.monitor.Check(maxIters, res.Error)
			if res.Warning != nil {
				res.Warning.Group = g
			}
		}

		return k.finish(g, phi, &res, err)
	}
	if err != nil {
		return k.finish(g, phi, &res, fmt.Errorf("gmres: %w", err))
	}

	k.monitor.Record(kr.Residual)
	if res.Error, err = convergence.FluxError(phi, x, k.opts.ErrorFloor); err != nil {
		return k.finish(g, phi, &res, err)
	}
	res.Converged = kr.Converged
	if !kr.Converged {
		res.Warning = k.monitor.Check(kr.Iterations, kr.Residual)
		if res.Warning != nil {
			res.Warning.Group = g
		}
	}

	return k.finish(g, x, &res, nil)
}
