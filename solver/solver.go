// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/ntransport/convergence"
	"github.com/katalvlaran/ntransport/matrix"
	"gonum.org/v1/gonum/floats"
)

// Solver is the within-group contract shared by every kernel.
type Solver interface {
	// Kind reports the kernel.
	Kind() Kind

	// BuildFixedSource assembles downscatter, upscatter, fission and external
	// terms of group g from the current flux store.
	BuildFixedSource(g int) error

	// BuildExternalFixedSource assembles only fission and external terms of g.
	BuildExternalFixedSource(g int) error

	// SetFixedSource installs a caller-assembled discrete fixed source for g.
	SetFixedSource(g int, q []float64) error

	// Solve iterates group g from its stored flux and writes the estimate back.
	Solve(g int) (Result, error)

	// Reset swaps the iteration cap and tolerance between solves.
	Reset(maxIters int, tol float64) error

	// Monitor exposes the convergence monitor for diagnostics.
	Monitor() *convergence.Monitor
}

// Result is the outcome of one Solve.
type Result struct {
	Group int
	// Error is the flux change of the last step. For Krylov it is the change
	// from the stored flux to the GMRES solution.
	Error float64
	// Iterations counts fixed-point steps or Krylov steps.
	Iterations int
	// Sweeps counts sweep applications.
	Sweeps int
	// Converged reports Error ≤ tolerance, or Residual ≤ tolerance for Krylov.
	Converged bool
	// Residual is the final GMRES relative residual (Krylov only); it is the
	// quantity Krylov compares against the tolerance.
	Residual float64
	// Rate is the empirical contraction factor when HasRate is true.
	Rate    float64
	HasRate bool
	// Warning is non-nil when the cap was reached above tolerance.
	Warning *convergence.Warning
}

// New builds a solver of the given kind over setup.
//
// Errors:
//   - ErrUnknownKind, ErrInvalidSetup (zero Setup), monitor validation errors.
func New(kind Kind, setup Setup, opts ...Option) (Solver, error) {
	if !setup.valid() {
		return nil, solverErrorf("New", fmt.Errorf("zero setup: %w", ErrInvalidSetup))
	}
	o := gatherOptions(opts...)
	mon, err := convergence.NewMonitor(o.MaxIterations, o.Tolerance)
	if err != nil {
		return nil, solverErrorf("New", err)
	}
	b := base{
		kind:       kind,
		setup:      setup,
		opts:       o,
		monitor:    mon,
		fixedGroup: -1,
		log:        o.Logger.With(slog.String("solver", kind.String())),
	}
	switch kind {
	case KindSourceIteration:
		return &SourceIteration{base: b}, nil
	case KindLivolant:
		return &Livolant{base: b}, nil
	case KindKrylov:
		return &Krylov{base: b}, nil
	}

	return nil, solverErrorf("New", fmt.Errorf("%s: %w", kind, ErrUnknownKind))
}

// base carries the state shared by every kernel: setup, options, monitor and
// the per-instance fixed source.
type base struct {
	kind       Kind
	setup      Setup
	opts       Options
	monitor    *convergence.Monitor
	fixed      []float64
	fixedGroup int
	log        *slog.Logger
}

// Kind reports the kernel.
func (b *base) Kind() Kind { return b.kind }

// Monitor exposes the convergence monitor.
func (b *base) Monitor() *convergence.Monitor { return b.monitor }

// Reset swaps the limits of the monitor.
func (b *base) Reset(maxIters int, tol float64) error {
	if err := b.monitor.Reset(maxIters, tol); err != nil {
		return solverErrorf("Reset", err)
	}

	return nil
}

// BuildFixedSource assembles the full fixed source of g.
func (b *base) BuildFixedSource(g int) error {
	q, err := b.setup.sources.FixedSource(g)
	if err != nil {
		return solverErrorf("BuildFixedSource", err)
	}
	b.fixed, b.fixedGroup = q, g

	return nil
}

// BuildExternalFixedSource assembles fission and external terms of g.
func (b *base) BuildExternalFixedSource(g int) error {
	q, err := b.setup.sources.ExternalFixedSource(g)
	if err != nil {
		return solverErrorf("BuildExternalFixedSource", err)
	}
	b.fixed, b.fixedGroup = q, g

	return nil
}

// SetFixedSource installs a copy of q as the fixed source of g.
func (b *base) SetFixedSource(g int, q []float64) error {
	if err := b.checkGroup("SetFixedSource", g); err != nil {
		return err
	}
	if len(q) != b.setup.NumCells() {
		return solverErrorf("SetFixedSource", fmt.Errorf("len=%d want %d: %w", len(q), b.setup.NumCells(), ErrDimensionMismatch))
	}
	b.fixed, b.fixedGroup = append([]float64(nil), q...), g

	return nil
}

// prepare checks the precondition of Solve(g) and returns the fixed source
// and a private copy of the stored flux.
func (b *base) prepare(g int) (fixed, phi []float64, err error) {
	if err = b.checkGroup("Solve", g); err != nil {
		return nil, nil, err
	}
	if b.fixedGroup != g || b.fixed == nil {
		return nil, nil, solverErrorf("Solve", fmt.Errorf("g=%d: %w", g, ErrFixedSourceMissing))
	}
	stored := b.setup.flux.Flux(g)
	if len(stored) != b.setup.NumCells() {
		return nil, nil, solverErrorf("Solve", fmt.Errorf("stored flux len=%d: %w", len(stored), ErrDimensionMismatch))
	}
	b.monitor.Clear()

	return b.fixed, append([]float64(nil), stored...), nil
}

// sweep applies D·Sweep(g, q).
func (b *base) sweep(g int, q []float64) ([]float64, error) {
	psi, err := b.setup.disc.Sweep(g, q)
	if err != nil {
		return nil, err
	}

	return b.setup.disc.DiscreteToMoment(psi)
}

// step performs one source-iteration update of phi.
func (b *base) step(g int, fixed, phi []float64) ([]float64, error) {
	q, err := b.setup.sources.ScatterSource(g, phi)
	if err != nil {
		return nil, err
	}
	floats.Add(q, fixed)

	return b.sweep(g, q)
}

// iterate runs the fixed-point loop from iteration start+1 up to the monitor
// cap. When accelerate is set, a Livolant extrapolation is attempted after
// every period plain steps.
func (b *base) iterate(g int, fixed, phi []float64, start int, accelerate bool, res *Result) ([]float64, error) {
	maxIters := b.monitor.MaxIterations()
	window := [][]float64{phi}
	plain := 0
	for it := start + 1; it <= maxIters; it++ {
		next, err := b.step(g, fixed, phi)
		res.Sweeps++
		if err != nil {
			return phi, err
		}
		if err := matrix.ValidateFiniteVec(next); err != nil {
			return phi, fmt.Errorf("g=%d iteration %d: %w: %w", g, it, ErrNonFinite, err)
		}
		e, err := convergence.FluxError(phi, next, b.opts.ErrorFloor)
		if err != nil {
			return phi, err
		}
		b.monitor.Record(e)
		res.Iterations, res.Error = it, e
		phi = next
		b.log.Debug("inner iteration", slog.Int("group", g), slog.Int("iteration", it), slog.Float64("error", e))

		if w := b.monitor.Check(it, e); w != nil {
			w.Group = g
			res.Warning = w
		}
		if b.monitor.Converged(e) {
			res.Converged = true
			break
		}

		if !accelerate || it == maxIters {
			continue
		}
		window = append(window, phi)
		if len(window) > 3 {
			window = window[1:]
		}
		plain++
		if plain < b.opts.LivolantPeriod {
			continue
		}
		if xs, ok := extrapolate(window[0], window[1], window[2]); ok {
			phi = xs
			b.opts.Metrics.extrapolation(true)
			b.log.Debug("livolant extrapolation", slog.Int("group", g), slog.Int("iteration", it))
		} else {
			b.opts.Metrics.extrapolation(false)
			b.log.Debug("livolant extrapolation skipped", slog.Int("group", g), slog.Int("iteration", it))
		}
		window = window[:0]
		window = append(window, phi)
		plain = 0
	}

	return phi, nil
}

// finish stores phi, fills the rate, logs and records metrics.
func (b *base) finish(g int, phi []float64, res *Result, err error) (Result, error) {
	if err == nil {
		if serr := b.setup.flux.SetFlux(g, phi); serr != nil {
			err = serr
		}
	}
	if err != nil {
		b.opts.Metrics.observe(b.kind, *res, err)
		b.log.Error("within-group solve failed", slog.Int("group", g), slog.Any("err", err))

		return *res, solverErrorf("Solve", err)
	}
	res.Rate, res.HasRate = b.monitor.Rate()
	b.opts.Metrics.observe(b.kind, *res, nil)

	attrs := []any{
		slog.Int("group", g),
		slog.Int("iterations", res.Iterations),
		slog.Int("sweeps", res.Sweeps),
		slog.Float64("error", res.Error),
	}
	if res.HasRate {
		attrs = append(attrs, slog.Float64("rate", res.Rate))
	}
	if res.Warning != nil {
		b.log.Warn("within-group iteration did not converge", append(attrs, slog.Float64("tolerance", res.Warning.Tolerance))...)
	} else {
		b.log.Debug("within-group solve converged", attrs...)
	}

	return *res, nil
}

func (b *base) checkGroup(tag string, g int) error {
	if g < 0 || g >= b.setup.NumGroups() {
		return solverErrorf(tag, fmt.Errorf("g=%d: %w", g, ErrGroupOutOfRange))
	}

	return nil
}
