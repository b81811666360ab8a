// SPDX-License-Identifier: MIT

package solver

import (
	"math"

	"github.com/katalvlaran/ntransport/matrix"
	"gonum.org/v1/gonum/floats"
)

const (
	// livolantEps bounds ‖r1 − r0‖² relative to ‖r1‖².
	livolantEps = 1e-20
	// livolantTiny keeps the skip threshold positive when r1 vanishes.
	livolantTiny = 1e-300
)

// Livolant is source iteration with periodic vector Aitken extrapolation.
type Livolant struct {
	base
}

var _ Solver = (*Livolant)(nil)

// Solve runs the source-iteration recurrence and, after every period plain
// steps, replaces the iterate by x* = x2 − λ·r1 when the extrapolation is well
// defined. Skipped extrapolations leave the plain update in place.
//
// Errors:
//   - same as SourceIteration.Solve.
func (l *Livolant) Solve(g int) (Result, error) {
	res := Result{Group: g}
	fixed, phi, err := l.prepare(g)
	if err != nil {
		return res, err
	}
	phi, err = l.iterate(g, fixed, phi, 0, true, &res)

	return l.finish(g, phi, &res, err)
}

// Period returns the number of plain steps between extrapolations.
func (l *Livolant) Period() int { return l.opts.LivolantPeriod }

// extrapolate returns x2 − λ·r1 with r0 = x1 − x0, r1 = x2 − x1 and
// λ = r1·(r1 − r0)/‖r1 − r0‖². ok is false when ‖r1 − r0‖² is negligible
// against ‖r1‖² or the result is not finite.
//
// For a scalar geometric sequence x(n+1) = a·x(n) + c the result is the exact
// fixed point c/(1 − a).
func extrapolate(x0, x1, x2 []float64) ([]float64, bool) {
	n := len(x2)
	r0 := make([]float64, n)
	r1 := make([]float64, n)
	d := make([]float64, n)
	floats.SubTo(r0, x1, x0)
	floats.SubTo(r1, x2, x1)
	floats.SubTo(d, r1, r0)

	den := floats.Dot(d, d)
	ref := math.Max(floats.Dot(r1, r1), livolantTiny)
	if den <= livolantEps*ref {
		return nil, false
	}
	lambda := floats.Dot(r1, d) / den

	out := make([]float64, n)
	floats.AddScaledTo(out, x2, -lambda, r1)
	if matrix.ValidateFiniteVec(out) != nil {
		return nil, false
	}

	return out, true
}
