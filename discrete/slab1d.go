// SPDX-License-Identifier: MIT

package discrete

import (
	"fmt"

	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/mesh"
)

// gaussLegendre holds the positive half of symmetric Gauss–Legendre sets on
// [-1, 1]; weights of each half sum to 1.
var gaussLegendre = map[int]struct{ mu, wt []float64 }{
	2: {
		mu: []float64{0.5773502691896257},
		wt: []float64{1.0},
	},
	4: {
		mu: []float64{0.3399810435848563, 0.8611363115940526},
		wt: []float64{0.6521451548625461, 0.3478548451374538},
	},
	8: {
		mu: []float64{0.1834346424956498, 0.5255324099163290, 0.7966664774136267, 0.9602898564975363},
		wt: []float64{0.3626837833783620, 0.3137066458778873, 0.2223810344533745, 0.1012285362903763},
	},
}

// slabWeightSum is the total angular weight of a 1D Gauss–Legendre set.
const slabWeightSum = 2.0

// Slab1D is a diamond-difference S_N discretization on a 1D slab with vacuum
// boundaries. Angles [0, n/2) travel left→right (μ > 0), angles [n/2, n)
// travel right→left with the mirrored cosines.
type Slab1D struct {
	mesh mesh.Mesh
	xs   material.CrossSections
	mu   []float64
	wt   []float64
}

var _ Discretization = (*Slab1D)(nil)

// NewSlab1D builds the slab discretization with the order from WithOrder.
//
// Errors:
//   - ErrNilInput, ErrUnsupportedOrder.
func NewSlab1D(m mesh.Mesh, xs material.CrossSections, opts ...Option) (*Slab1D, error) {
	if m == nil || xs == nil {
		return nil, discreteErrorf(opSlab1D, ErrNilInput)
	}
	o := gatherOptions(opts...)
	set, ok := gaussLegendre[o.order]
	if !ok {
		return nil, discreteErrorf(opSlab1D, fmt.Errorf("order %d: %w", o.order, ErrUnsupportedOrder))
	}

	return &Slab1D{mesh: m, xs: xs, mu: set.mu, wt: set.wt}, nil
}

// Dimension returns OneD.
func (s *Slab1D) Dimension() Dimension { return OneD }

// NumCells returns the mesh cell count.
func (s *Slab1D) NumCells() int { return s.mesh.NumCells() }

// NumAngles returns the full S_N direction count.
func (s *Slab1D) NumAngles() int { return 2 * len(s.mu) }

// Sweep transports an isotropic discrete source for group g.
//
// Cell balance with the diamond closure ψc = (ψin + ψout)/2:
//
//	ψc   = (q + α ψin) / (Σt + α),  α = 2|μ|/Δx
//	ψout = 2ψc − ψin
//
// No negative-flux fixup is applied; the sweep stays linear in q.
func (s *Slab1D) Sweep(g int, source []float64) (AngularFlux, error) {
	n := s.mesh.NumCells()
	if err := checkLen(opSlab1D+".Sweep", source, n); err != nil {
		return nil, err
	}
	half := len(s.mu)
	psi := make(AngularFlux, 2*half)
	var a, c int
	var alpha, st, in, center float64
	for a = 0; a < half; a++ {
		// left → right
		fwd := make([]float64, n)
		in = 0
		for c = 0; c < n; c++ {
			alpha = 2 * s.mu[a] / s.mesh.Width(c)
			st = s.xs.SigmaT(s.mesh.Material(c), g)
			center = (source[c] + alpha*in) / (st + alpha)
			fwd[c] = center
			in = 2*center - in
		}
		psi[a] = fwd

		// right → left
		bwd := make([]float64, n)
		in = 0
		for c = n - 1; c >= 0; c-- {
			alpha = 2 * s.mu[a] / s.mesh.Width(c)
			st = s.xs.SigmaT(s.mesh.Material(c), g)
			center = (source[c] + alpha*in) / (st + alpha)
			bwd[c] = center
			in = 2*center - in
		}
		psi[half+a] = bwd
	}

	return psi, nil
}

// MomentToDiscrete returns q / Σw for an isotropic source.
func (s *Slab1D) MomentToDiscrete(moment []float64) ([]float64, error) {
	if err := checkLen(opSlab1D+".MomentToDiscrete", moment, s.mesh.NumCells()); err != nil {
		return nil, err
	}
	out := make([]float64, len(moment))
	for c, v := range moment {
		out[c] = v / slabWeightSum
	}

	return out, nil
}

// DiscreteToMoment returns φ(c) = Σ_a w_a ψ_a(c).
func (s *Slab1D) DiscreteToMoment(psi AngularFlux) ([]float64, error) {
	half := len(s.mu)
	if len(psi) != 2*half {
		return nil, discreteErrorf(opSlab1D+".DiscreteToMoment", ErrDimensionMismatch)
	}
	n := s.mesh.NumCells()
	phi := make([]float64, n)
	for a := 0; a < 2*half; a++ {
		if err := checkLen(opSlab1D+".DiscreteToMoment", psi[a], n); err != nil {
			return nil, err
		}
		w := s.wt[a%half]
		for c, v := range psi[a] {
			phi[c] += w * v
		}
	}

	return phi, nil
}
