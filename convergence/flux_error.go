// SPDX-License-Identifier: MIT

package convergence

import (
	"fmt"
	"math"
)

// FluxError returns max_c e(c) where e(c) = |next(c) − prev(c)| / |next(c)|,
// or the absolute change when |next(c)| ≤ floor. A non-finite entry in either
// iterate yields +Inf so that divergence never looks converged.
//
// Errors:
//   - ErrDimensionMismatch.
//
// Complexity: O(n).
func FluxError(prev, next []float64, floor float64) (float64, error) {
	if len(prev) != len(next) {
		return 0, fmt.Errorf("convergence.FluxError: len %d vs %d: %w", len(prev), len(next), ErrDimensionMismatch)
	}
	var worst, d, ref float64
	for c := range next {
		d = math.Abs(next[c] - prev[c])
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return math.Inf(1), nil
		}
		ref = math.Abs(next[c])
		if ref > floor {
			d /= ref
		}
		if d > worst {
			worst = d
		}
	}

	return worst, nil
}
