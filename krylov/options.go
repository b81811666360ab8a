// SPDX-License-Identifier: MIT

package krylov

import "math"

const (
	// DefaultRestart is the Krylov subspace dimension before restart.
	DefaultRestart = 20

	// DefaultTolerance is the relative residual target.
	DefaultTolerance = 1e-8

	// DefaultMaxIterations caps the total number of Arnoldi steps.
	DefaultMaxIterations = 1000
)

// Option configures GMRES.
type Option func(*Options)

// Options holds the GMRES configuration.
type Options struct {
	Restart       int
	Tolerance     float64
	MaxIterations int
}

// WithRestart sets the subspace dimension m. Panics if m < 1.
func WithRestart(m int) Option {
	if m < 1 {
		panic("krylov: WithRestart(m) requires m >= 1")
	}

	return func(o *Options) { o.Restart = m }
}

// WithTolerance sets the relative residual target. Panics unless tol is finite and > 0.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic("krylov: WithTolerance(tol) requires finite tol > 0")
	}

	return func(o *Options) { o.Tolerance = tol }
}

// WithMaxIterations caps the total Arnoldi steps. Panics if n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic("krylov: WithMaxIterations(n) requires n >= 1")
	}

	return func(o *Options) { o.MaxIterations = n }
}

func gatherOptions(user ...Option) Options {
	o := Options{Restart: DefaultRestart, Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
	for _, opt := range user {
		opt(&o)
	}

	return o
}
