// SPDX-License-Identifier: MIT

package solver

// SourceIteration is the baseline fixed-point kernel.
type SourceIteration struct {
	base
}

var _ Solver = (*SourceIteration)(nil)

// Solve runs φ ← D·Sweep(q_fixed + M·(σs,gg ∘ φ)) from the stored flux of g
// until the flux change is within tolerance or the cap is reached.
//
// Errors:
//   - ErrGroupOutOfRange, ErrFixedSourceMissing, ErrNonFinite, collaborator errors.
//
// Complexity:
//   - O(iterations · cost(sweep)).
func (s *SourceIteration) Solve(g int) (Result, error) {
	res := Result{Group: g}
	fixed, phi, err := s.prepare(g)
	if err != nil {
		return res, err
	}
	phi, err = s.iterate(g, fixed, phi, 0, false, &res)

	return s.finish(g, phi, &res, err)
}
