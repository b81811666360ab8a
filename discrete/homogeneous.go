// SPDX-License-Identifier: MIT

package discrete

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/mesh"
)

const (
	opHomogeneous = "Homogeneous"
	opSlab1D      = "Slab1D"
	opNew         = "New"
)

// Option configures a reference discretization.
type Option func(*options)

type options struct {
	normalization float64 // Homogeneous only; > 0
	order         int     // Slab1D only; 2, 4 or 8
}

// DefaultNormalization is the angular weight of the single homogeneous direction.
const DefaultNormalization = 1.0

// DefaultOrder is the default S_N order of Slab1D.
const DefaultOrder = 8

const panicNormalization = "discrete: WithNormalization: w must be finite and > 0"

// WithNormalization sets the homogeneous angular weight w, so that
// M q = q/w and D ψ = w ψ. Use 4π for a 3D isotropic convention.
// Panics on non-finite or non-positive w (programmer error).
func WithNormalization(w float64) Option {
	if !(w > 0) || math.IsInf(w, 0) {
		panic(panicNormalization)
	}

	return func(o *options) { o.normalization = w }
}

// WithOrder sets the Slab1D quadrature order. Unsupported orders surface as
// ErrUnsupportedOrder from the constructor.
func WithOrder(n int) Option {
	return func(o *options) { o.order = n }
}

func gatherOptions(user ...Option) options {
	o := options{normalization: DefaultNormalization, order: DefaultOrder}
	for _, set := range user {
		set(&o)
	}

	return o
}

// HomogeneousMedium is the infinite-medium discretization: one direction,
// no streaming, ψ(c) = q(c)/Σt(mat(c), g).
type HomogeneousMedium struct {
	mesh mesh.Mesh
	xs   material.CrossSections
	norm float64
}

var _ Discretization = (*HomogeneousMedium)(nil)

// NewHomogeneous builds an infinite-medium discretization over m.
//
// Errors:
//   - ErrNilInput, ErrInvalidNormalization.
func NewHomogeneous(m mesh.Mesh, xs material.CrossSections, opts ...Option) (*HomogeneousMedium, error) {
	if m == nil || xs == nil {
		return nil, discreteErrorf(opHomogeneous, ErrNilInput)
	}
	o := gatherOptions(opts...)
	if !(o.normalization > 0) {
		return nil, discreteErrorf(opHomogeneous, ErrInvalidNormalization)
	}

	return &HomogeneousMedium{mesh: m, xs: xs, norm: o.normalization}, nil
}

// Dimension returns Homogeneous.
func (h *HomogeneousMedium) Dimension() Dimension { return Homogeneous }

// NumCells returns the mesh cell count.
func (h *HomogeneousMedium) NumCells() int { return h.mesh.NumCells() }

// NumAngles returns 1.
func (h *HomogeneousMedium) NumAngles() int { return 1 }

// Normalization returns the angular weight.
func (h *HomogeneousMedium) Normalization() float64 { return h.norm }

// Sweep returns ψ = q/Σt per cell.
//
// Errors:
//   - ErrDimensionMismatch, ErrVoidCell.
func (h *HomogeneousMedium) Sweep(g int, source []float64) (AngularFlux, error) {
	n := h.mesh.NumCells()
	if err := checkLen(opHomogeneous+".Sweep", source, n); err != nil {
		return nil, err
	}
	psi := make([]float64, n)
	var st float64
	for c := 0; c < n; c++ {
		st = h.xs.SigmaT(h.mesh.Material(c), g)
		if st == 0 {
			return nil, discreteErrorf(opHomogeneous+".Sweep", fmt.Errorf("cell %d group %d: %w", c, g, ErrVoidCell))
		}
		psi[c] = source[c] / st
	}

	return AngularFlux{psi}, nil
}

// MomentToDiscrete returns q/w.
func (h *HomogeneousMedium) MomentToDiscrete(moment []float64) ([]float64, error) {
	if err := checkLen(opHomogeneous+".MomentToDiscrete", moment, h.mesh.NumCells()); err != nil {
		return nil, err
	}
	out := make([]float64, len(moment))
	inv := 1.0 / h.norm
	for c, v := range moment {
		out[c] = v * inv
	}

	return out, nil
}

// DiscreteToMoment returns w·ψ.
func (h *HomogeneousMedium) DiscreteToMoment(psi AngularFlux) ([]float64, error) {
	if len(psi) != 1 {
		return nil, discreteErrorf(opHomogeneous+".DiscreteToMoment", ErrDimensionMismatch)
	}
	if err := checkLen(opHomogeneous+".DiscreteToMoment", psi[0], h.mesh.NumCells()); err != nil {
		return nil, err
	}
	out := make([]float64, len(psi[0]))
	for c, v := range psi[0] {
		out[c] = h.norm * v
	}

	return out, nil
}

// New builds a reference discretization by dimension.
//
// Errors:
//   - ErrUnsupportedDiscretization for 2D dimensions and unknown values.
//   - constructor errors of the chosen variant.
func New(dim Dimension, m mesh.Mesh, xs material.CrossSections, opts ...Option) (Discretization, error) {
	switch dim {
	case Homogeneous:
		return NewHomogeneous(m, xs, opts...)
	case OneD:
		return NewSlab1D(m, xs, opts...)
	}

	return nil, discreteErrorf(opNew, fmt.Errorf("%s: %w", dim, ErrUnsupportedDiscretization))
}
