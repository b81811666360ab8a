// SPDX-License-Identifier: MIT

package discrete

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedDiscretization is a fatal setup error: unknown kind or a
	// dimension without an available kernel.
	ErrUnsupportedDiscretization = errors.New("discrete: unsupported discretization")

	// ErrUnsupportedOrder indicates a quadrature order without a built-in set.
	ErrUnsupportedOrder = errors.New("discrete: unsupported quadrature order")

	// ErrDimensionMismatch indicates a vector whose length differs from the cell count
	// or an angular flux with the wrong number of angles.
	ErrDimensionMismatch = errors.New("discrete: dimension mismatch")

	// ErrVoidCell indicates Σt == 0 in a homogeneous cell (singular collision operator).
	ErrVoidCell = errors.New("discrete: zero total cross section in homogeneous cell")

	// ErrInvalidNormalization indicates a non-positive angular normalization.
	ErrInvalidNormalization = errors.New("discrete: normalization must be > 0")

	// ErrNilInput indicates a nil mesh or cross-section set.
	ErrNilInput = errors.New("discrete: nil mesh or cross sections")
)

// discreteErrorf wraps err with an operation tag; use only when err != nil.
func discreteErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Dimension tags the geometry a discretization works in.
type Dimension int

const (
	// Homogeneous is an infinite medium (no streaming).
	Homogeneous Dimension = iota
	// OneD is a 1D slab.
	OneD
	// TwoDStructured is a 2D structured (Cartesian) mesh.
	TwoDStructured
	// TwoDUnstructured is a 2D unstructured mesh (e.g. characteristics).
	TwoDUnstructured
)

// String returns the canonical lower-case name.
func (d Dimension) String() string {
	switch d {
	case Homogeneous:
		return "homogeneous"
	case OneD:
		return "1d"
	case TwoDStructured:
		return "2d-structured"
	case TwoDUnstructured:
		return "2d-unstructured"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// Valid reports whether d is one of the known dimensions.
func (d Dimension) Valid() bool { return d >= Homogeneous && d <= TwoDUnstructured }

// ParseDimension maps a name (case-insensitive) to a Dimension.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "homogeneous", "infinite", "0d":
		return Homogeneous, nil
	case "1d", "slab":
		return OneD, nil
	case "2d-structured", "2d":
		return TwoDStructured, nil
	case "2d-unstructured", "moc":
		return TwoDUnstructured, nil
	}

	return 0, discreteErrorf("ParseDimension", fmt.Errorf("%q: %w", s, ErrUnsupportedDiscretization))
}

// AngularFlux holds ψ indexed [angle][cell].
type AngularFlux [][]float64

// Transform converts between moment and discrete representations. Both
// directions are linear.
type Transform interface {
	// MomentToDiscrete maps a per-cell moment vector to a discrete source.
	MomentToDiscrete(moment []float64) ([]float64, error)

	// DiscreteToMoment integrates an angular flux into a per-cell scalar flux.
	DiscreteToMoment(psi AngularFlux) ([]float64, error)
}

// Sweeper applies the inverse streaming-and-collision operator for group g.
// It must be linear in source (homogeneous boundary conditions).
type Sweeper interface {
	Sweep(g int, source []float64) (AngularFlux, error)
}

// Discretization is the full capability a within-group solver needs.
type Discretization interface {
	Sweeper
	Transform

	// Dimension reports the geometry.
	Dimension() Dimension

	// NumCells returns the length of every moment and discrete vector.
	NumCells() int

	// NumAngles returns the number of discrete directions in an AngularFlux.
	NumAngles() int
}

// checkLen validates a per-cell vector length.
func checkLen(tag string, v []float64, n int) error {
	if len(v) != n {
		return discreteErrorf(tag, fmt.Errorf("len=%d want %d: %w", len(v), n, ErrDimensionMismatch))
	}

	return nil
}
