// SPDX-License-Identifier: MIT

package convergence

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConverged is matched by every *Warning via errors.Is.
	ErrNotConverged = errors.New("convergence: iteration limit reached above tolerance")

	// ErrInvalidTolerance indicates a non-positive or non-finite tolerance.
	ErrInvalidTolerance = errors.New("convergence: tolerance must be finite and > 0")

	// ErrInvalidMaxIterations indicates a non-positive iteration cap.
	ErrInvalidMaxIterations = errors.New("convergence: max iterations must be > 0")

	// ErrDimensionMismatch indicates flux iterates of different length.
	ErrDimensionMismatch = errors.New("convergence: dimension mismatch")
)

// Warning is the recoverable non-convergence report. It carries the best
// estimate's achieved error; the estimate itself stays with the caller.
type Warning struct {
	Group     int
	Iteration int
	Achieved  float64
	Tolerance float64
}

// Error implements error.
func (w *Warning) Error() string {
	return fmt.Sprintf("%v (group %d, iteration %d, error %.3e > tol %.3e)",
		ErrNotConverged, w.Group, w.Iteration, w.Achieved, w.Tolerance)
}

// Unwrap exposes ErrNotConverged.
func (w *Warning) Unwrap() error { return ErrNotConverged }
