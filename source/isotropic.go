// SPDX-License-Identifier: MIT

package source

import (
	"fmt"
	"math"
)

// Isotropic is a fixed external source given as per-group, per-cell moment
// strengths. The strengths are transformed to discrete form once, at
// construction.
type Isotropic struct {
	discrete [][]float64
}

var _ ExternalSource = (*Isotropic)(nil)

// NewIsotropic transforms moments[g] through t for every group. A nil row is
// treated as a zero source for that group.
//
// Errors:
//   - ErrNilInput, ErrDimensionMismatch (rows of different length),
//     ErrGroupOutOfRange (no groups), ErrNaNInf, transform errors.
func NewIsotropic(t Transform, cells int, moments [][]float64) (*Isotropic, error) {
	if t == nil {
		return nil, sourceErrorf(opNewIsotropic, ErrNilInput)
	}
	if len(moments) == 0 {
		return nil, sourceErrorf(opNewIsotropic, ErrGroupOutOfRange)
	}
	s := &Isotropic{discrete: make([][]float64, len(moments))}
	for g, row := range moments {
		if row == nil {
			row = make([]float64, cells)
		}
		if len(row) != cells {
			return nil, sourceErrorf(opNewIsotropic, fmt.Errorf("g=%d len=%d want %d: %w", g, len(row), cells, ErrDimensionMismatch))
		}
		for c, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, sourceErrorf(opNewIsotropic, fmt.Errorf("g=%d cell=%d: %w", g, c, ErrNaNInf))
			}
		}
		q, err := t.MomentToDiscrete(row)
		if err != nil {
			return nil, sourceErrorf(opNewIsotropic, err)
		}
		s.discrete[g] = q
	}

	return s, nil
}

// Initialized reports true once constructed. A nil receiver reports false.
func (s *Isotropic) Initialized() bool { return s != nil && s.discrete != nil }

// NumGroups returns the number of groups the source covers.
func (s *Isotropic) NumGroups() int { return len(s.discrete) }

// Source returns a copy of the discrete source of group g.
func (s *Isotropic) Source(g int) ([]float64, error) {
	if g < 0 || g >= len(s.discrete) {
		return nil, sourceErrorf(opIsotropicSource, fmt.Errorf("g=%d: %w", g, ErrGroupOutOfRange))
	}
	out := make([]float64, len(s.discrete[g]))
	copy(out, s.discrete[g])

	return out, nil
}
