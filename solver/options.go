// SPDX-License-Identifier: MIT

package solver

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/ntransport/convergence"
	"github.com/katalvlaran/ntransport/krylov"
)

const (
	// DefaultLivolantPeriod is the number of plain steps between extrapolations.
	DefaultLivolantPeriod = 3

	// MinLivolantPeriod and MaxLivolantPeriod bound WithLivolantPeriod.
	MinLivolantPeriod = 2
	MaxLivolantPeriod = 10

	// DefaultKrylovRestart is the GMRES subspace dimension.
	DefaultKrylovRestart = krylov.DefaultRestart
)

// Option configures a Solver.
type Option func(*Options)

// Options holds solver configuration. Zero values are replaced by defaults.
type Options struct {
	Logger         *slog.Logger
	Metrics        *Metrics
	Tolerance      float64
	MaxIterations  int
	LivolantPeriod int
	KrylovRestart  int
	ErrorFloor     float64
}

// WithLogger sets the structured logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics sets the metric sink. A nil value disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithTolerance sets the convergence tolerance. Panics unless tol is finite and > 0.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic("solver: WithTolerance(tol) requires finite tol > 0")
	}

	return func(o *Options) { o.Tolerance = tol }
}

// WithMaxIterations sets the iteration cap. Panics if n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic("solver: WithMaxIterations(n) requires n >= 1")
	}

	return func(o *Options) { o.MaxIterations = n }
}

// WithLivolantPeriod sets the plain steps between extrapolations.
// Panics outside [MinLivolantPeriod, MaxLivolantPeriod].
func WithLivolantPeriod(p int) Option {
	if p < MinLivolantPeriod || p > MaxLivolantPeriod {
		panic("solver: WithLivolantPeriod(p) requires 2 <= p <= 10")
	}

	return func(o *Options) { o.LivolantPeriod = p }
}

// WithKrylovRestart sets the GMRES restart length. Panics if m < 1.
func WithKrylovRestart(m int) Option {
	if m < 1 {
		panic("solver: WithKrylovRestart(m) requires m >= 1")
	}

	return func(o *Options) { o.KrylovRestart = m }
}

// WithErrorFloor sets the magnitude under which flux errors are absolute.
// Panics if floor < 0 or is not finite.
func WithErrorFloor(floor float64) Option {
	if !(floor >= 0) || math.IsInf(floor, 0) {
		panic("solver: WithErrorFloor(floor) requires finite floor >= 0")
	}

	return func(o *Options) { o.ErrorFloor = floor }
}

func gatherOptions(user ...Option) Options {
	o := Options{
		Logger:         slog.Default(),
		Tolerance:      convergence.DefaultTolerance,
		MaxIterations:  convergence.DefaultMaxIterations,
		LivolantPeriod: DefaultLivolantPeriod,
		KrylovRestart:  DefaultKrylovRestart,
		ErrorFloor:     convergence.DefaultErrorFloor,
	}
	for _, opt := range user {
		opt(&o)
	}

	return o
}
