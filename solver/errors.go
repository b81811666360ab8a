// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind indicates a solver kind outside the supported set.
	ErrUnknownKind = errors.New("solver: unknown solver kind")

	// ErrUnsupportedDiscretization indicates a discretization whose dimension
	// has no kernel.
	ErrUnsupportedDiscretization = errors.New("solver: unsupported discretization")

	// ErrInvalidSetup indicates a nil collaborator or mismatched cell counts.
	ErrInvalidSetup = errors.New("solver: invalid setup")

	// ErrFixedSourceMissing is returned by Solve(g) when no fixed source has
	// been assembled for g.
	ErrFixedSourceMissing = errors.New("solver: fixed source not assembled for group")

	// ErrGroupOutOfRange indicates a group index outside [0, groups).
	ErrGroupOutOfRange = errors.New("solver: group out of range")

	// ErrDimensionMismatch indicates a vector of the wrong length.
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")

	// ErrNonFinite indicates that an iterate contained NaN or Inf.
	ErrNonFinite = errors.New("solver: non-finite flux iterate")
)

// solverErrorf wraps err with an operation tag; use only when err != nil.
func solverErrorf(tag string, err error) error {
	return fmt.Errorf("solver.%s: %w", tag, err)
}
