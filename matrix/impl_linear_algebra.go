// SPDX-License-Identifier: MIT
// Package matrix provides the transposed matrix–vector kernel on any Matrix
// implementation, with strict fail-fast validation.
//
// Notes:
//   - *Dense operands take a flat-slice fast path; other implementations fall back
//     to bounds-checked At with the same loop order, so both paths agree bitwise.

package matrix

import "fmt"

// opMatTVec tags errors from MatTVec.
const opMatTVec = "MatTVec"

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatTVec computes y = mᵀ·x without materializing the transpose.
//
// Inputs:
//   - m: non-nil matrix (r×c).
//   - x: vector of length r.
//
// Returns:
//   - []float64: fresh vector of length c.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with opMatTVec).
//
// Determinism:
//   - Row-major accumulation: for i=0..r-1, y += x[i]*row(i). Rows with x[i]==0
//     are skipped, so trailing zero coefficients cost nothing.
//
// Complexity:
//   - Time O(r*c), Space O(c).
//
// AI-Hints:
//   - A Krylov correction x += Vᵀ·y over the first k basis rows is MatTVec with y
//     zero-padded to Rows(); unused rows are skipped by the zero check.
func MatTVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	if err := ValidateVecLen(x, m.Rows()); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, cols)

	if d, ok := m.(*Dense); ok {
		var i, j, base int
		var xi float64
		for i = 0; i < d.r; i++ {
			xi = x[i]
			if xi == 0 {
				continue
			}
			base = i * d.c
			for j = 0; j < d.c; j++ {
				y[j] += xi * d.data[base+j]
			}
		}

		return y, nil
	}

	var i, j int
	var mv float64
	var err error
	for i = 0; i < rows; i++ {
		if x[i] == 0 {
			continue
		}
		for j = 0; j < cols; j++ {
			mv, err = m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opMatTVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			y[j] += x[i] * mv
		}
	}

	return y, nil
}
