// SPDX-License-Identifier: MIT

package source

// Transform maps a per-cell moment vector to the discrete representation used by
// a sweep. It must be linear.
type Transform interface {
	MomentToDiscrete(moment []float64) ([]float64, error)
}

// FissionSource supplies the prescaled discrete fission contribution of group g.
// Source(g) is ready for direct addition: every normalization and eigenvalue
// factor has already been applied by the implementation.
type FissionSource interface {
	Source(g int) ([]float64, error)
	Initialized() bool
}

// ExternalSource supplies the discrete external contribution of group g.
type ExternalSource interface {
	Source(g int) ([]float64, error)
	Initialized() bool
}

// FluxState is the read view of the shared per-group scalar flux.
// Flux(g) must return a vector of NumCells length for every g below
// NumGroups; callers never modify it.
type FluxState interface {
	NumGroups() int
	Flux(g int) []float64
}

// Option customizes a Builder.
type Option func(*Builder)

// WithFission attaches a fission collaborator. A nil value leaves fission off.
func WithFission(f FissionSource) Option {
	return func(b *Builder) { b.fission = f }
}

// WithExternal attaches an external-source collaborator. A nil value leaves it off.
func WithExternal(e ExternalSource) Option {
	return func(b *Builder) { b.external = e }
}
