// SPDX-License-Identifier: MIT

package material

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidShape is returned for non-positive material or group counts.
	ErrInvalidShape = errors.New("material: material and group counts must be > 0")

	// ErrIndexOutOfRange indicates a material or group index outside the library.
	ErrIndexOutOfRange = errors.New("material: index out of range")

	// ErrNegative indicates a negative cross section.
	ErrNegative = errors.New("material: negative cross section")

	// ErrNaNInf indicates a NaN or ±Inf cross section.
	ErrNaNInf = errors.New("material: NaN or Inf cross section")

	// ErrFinalized is returned by setters once the library has been finalized.
	ErrFinalized = errors.New("material: library is finalized")

	// ErrNotFinalized is returned when a consumer requires a finalized library.
	ErrNotFinalized = errors.New("material: library is not finalized")

	// ErrInvalidBounds indicates coupling bounds outside [0, groups) or lower > upper.
	ErrInvalidBounds = errors.New("material: invalid scattering bounds")
)

// materialErrorf wraps err with an operation tag; use only when err != nil.
func materialErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
