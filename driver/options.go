// SPDX-License-Identifier: MIT

package driver

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/ntransport/convergence"
)

const (
	// DefaultTolerance is the outer flux-change tolerance.
	DefaultTolerance = 1e-6

	// DefaultEigenTolerance is the relative k-change tolerance.
	DefaultEigenTolerance = 1e-6

	// DefaultMaxOuter caps the number of outer passes.
	DefaultMaxOuter = 200

	// DefaultLoosening scales the outer error into an early inner tolerance.
	DefaultLoosening = 0.1
)

// Option configures a driver run.
type Option func(*Options)

// Options holds outer-iteration settings.
type Options struct {
	Logger         *slog.Logger
	Tolerance      float64
	EigenTolerance float64
	MaxOuter       int
	InnerTolerance float64
	InnerMaxIters  int
	Loosening      float64
	Parallelism    int
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithTolerance sets the outer flux-change tolerance. Panics unless finite and > 0.
func WithTolerance(tol float64) Option {
	mustPositive("WithTolerance", tol)

	return func(o *Options) { o.Tolerance = tol }
}

// WithEigenTolerance sets the relative k-change tolerance. Panics unless finite and > 0.
func WithEigenTolerance(tol float64) Option {
	mustPositive("WithEigenTolerance", tol)

	return func(o *Options) { o.EigenTolerance = tol }
}

// WithMaxOuter caps the outer passes. Panics if n < 1.
func WithMaxOuter(n int) Option {
	if n < 1 {
		panic("driver: WithMaxOuter(n) requires n >= 1")
	}

	return func(o *Options) { o.MaxOuter = n }
}

// WithInner sets the target inner tolerance and iteration cap that
// PowerIteration restores once the outer error is small. Panics on invalid values.
func WithInner(maxIters int, tol float64) Option {
	if maxIters < 1 {
		panic("driver: WithInner(maxIters, tol) requires maxIters >= 1")
	}
	mustPositive("WithInner", tol)

	return func(o *Options) { o.InnerMaxIters, o.InnerTolerance = maxIters, tol }
}

// WithLoosening sets the factor f in inner tol = max(target, f·outerErr).
// Zero disables loosening. Panics if f < 0 or not finite.
func WithLoosening(f float64) Option {
	if !(f >= 0) || math.IsInf(f, 0) {
		panic("driver: WithLoosening(f) requires finite f >= 0")
	}

	return func(o *Options) { o.Loosening = f }
}

// WithParallelism limits concurrent group solves in Jacobi. n <= 0 means one
// goroutine per group.
func WithParallelism(n int) Option {
	return func(o *Options) { o.Parallelism = n }
}

func mustPositive(name string, v float64) {
	if !(v > 0) || math.IsInf(v, 0) {
		panic("driver: " + name + " requires a finite value > 0")
	}
}

func gatherOptions(user ...Option) Options {
	o := Options{
		Logger:         slog.Default(),
		Tolerance:      DefaultTolerance,
		EigenTolerance: DefaultEigenTolerance,
		MaxOuter:       DefaultMaxOuter,
		InnerTolerance: convergence.DefaultTolerance,
		InnerMaxIters:  convergence.DefaultMaxIterations,
		Loosening:      DefaultLoosening,
	}
	for _, opt := range user {
		opt(&o)
	}

	return o
}
