// SPDX-License-Identifier: MIT

package source

import (
	"errors"
	"fmt"
)

var (
	// ErrGroupOutOfRange indicates a group index outside [0, groups).
	ErrGroupOutOfRange = errors.New("source: group out of range")

	// ErrDimensionMismatch indicates a vector whose length differs from the cell count.
	ErrDimensionMismatch = errors.New("source: dimension mismatch")

	// ErrNaNInf indicates a non-finite external strength.
	ErrNaNInf = errors.New("source: NaN or Inf strength")

	// ErrNilInput indicates a nil table, transform or flux state.
	ErrNilInput = errors.New("source: nil collaborator")
)

// Operation tags.
const (
	opNewBuilder          = "NewBuilder"
	opScatterSource       = "ScatterSource"
	opDownscatter         = "Downscatter"
	opUpscatter           = "Upscatter"
	opFixedSource         = "FixedSource"
	opExternalFixedSource = "ExternalFixedSource"
	opNewIsotropic        = "NewIsotropic"
	opIsotropicSource     = "Isotropic.Source"
)

// sourceErrorf wraps err with an operation tag; use only when err != nil.
func sourceErrorf(tag string, err error) error {
	return fmt.Errorf("source.%s: %w", tag, err)
}
