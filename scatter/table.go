// SPDX-License-Identifier: MIT

// Package scatter provides the immutable, banded scattering table used by the
// source builder.
//
// For each destination group g the table stores one band of shape
// cells × (Upper(g) − Lower(g) + 1) holding Σs(material(cell), g, g') for the
// coupled source groups only. Get(g) materializes the full cells × groups view
// with exact zeros outside the band, so it can be used multiplicatively without
// masking.
//
// Complexity quicksheet:
//   - New: O(cells · groups · band); At: O(1); Get: O(cells · groups).
//
// A Table is read-only after New and safe for concurrent use.
package scatter

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/matrix"
	"github.com/katalvlaran/ntransport/mesh"
)

var (
	// ErrNilInput indicates a nil mesh or material.
	ErrNilInput = errors.New("scatter: nil mesh or material")

	// ErrEmpty indicates a mesh without cells or a material without groups.
	ErrEmpty = errors.New("scatter: no cells or no groups")

	// ErrMaterialOutOfRange indicates a cell mapped to a material the library lacks.
	ErrMaterialOutOfRange = errors.New("scatter: cell material out of range")

	// ErrGroupOutOfRange indicates a group index outside [0, groups).
	ErrGroupOutOfRange = errors.New("scatter: group out of range")

	// ErrCellOutOfRange indicates a cell index outside [0, cells).
	ErrCellOutOfRange = errors.New("scatter: cell out of range")
)

const (
	opNew    = "New"
	opGet    = "Get"
	opRow    = "Row"
	opWithin = "Within"
)

// scatterErrorf wraps err with an operation tag; use only when err != nil.
func scatterErrorf(tag string, err error) error {
	return fmt.Errorf("scatter.%s: %w", tag, err)
}

// Table is the banded per-destination-group scattering store.
type Table struct {
	cells  int
	groups int
	lower  []int
	upper  []int
	bands  []*matrix.Dense // bands[g]: cells × (upper[g]-lower[g]+1)
}

// New builds the table from the cell→material map of m and the coupling
// bounds of mat.
//
// Implementation:
//   - Stage 1: validate inputs, bounds, and every cell's material index.
//   - Stage 2: for each g allocate the band and fill Σs(mat(cell), g, g') for
//     g' ∈ [Lower(g), Upper(g)].
//
// Errors:
//   - ErrNilInput, ErrEmpty, ErrMaterialOutOfRange,
//     material.ErrInvalidBounds, matrix.ErrNaNInf (non-finite Σs).
//
// Complexity:
//   - Time O(cells · groups · band), Space O(cells · Σ band).
func New(m mesh.Mesh, mat material.Material) (*Table, error) {
	if m == nil || mat == nil {
		return nil, scatterErrorf(opNew, ErrNilInput)
	}
	cells, groups := m.NumCells(), mat.NumGroups()
	if cells <= 0 || groups <= 0 {
		return nil, scatterErrorf(opNew, ErrEmpty)
	}
	if err := material.ValidateBounds(mat); err != nil {
		return nil, scatterErrorf(opNew, err)
	}

	// Stage 1: resolve the cell→material map once.
	matOf := make([]int, cells)
	var c, id int
	for c = 0; c < cells; c++ {
		id = m.Material(c)
		if id < 0 || id >= mat.NumMaterials() {
			return nil, scatterErrorf(opNew, fmt.Errorf("cell %d material %d: %w", c, id, ErrMaterialOutOfRange))
		}
		matOf[c] = id
	}

	// Stage 2: fill the bands.
	t := &Table{
		cells:  cells,
		groups: groups,
		lower:  make([]int, groups),
		upper:  make([]int, groups),
		bands:  make([]*matrix.Dense, groups),
	}
	var g, gp, lo, hi int
	for g = 0; g < groups; g++ {
		lo, hi = mat.Lower(g), mat.Upper(g)
		band, err := matrix.NewDense(cells, hi-lo+1)
		if err != nil {
			return nil, scatterErrorf(opNew, err)
		}
		for c = 0; c < cells; c++ {
			for gp = lo; gp <= hi; gp++ {
				if err = band.Set(c, gp-lo, mat.SigmaS(matOf[c], g, gp)); err != nil {
					return nil, scatterErrorf(opNew, fmt.Errorf("g=%d gp=%d: %w", g, gp, err))
				}
			}
		}
		t.lower[g], t.upper[g], t.bands[g] = lo, hi, band
	}

	return t, nil
}

// NumCells returns the number of cells.
func (t *Table) NumCells() int { return t.cells }

// NumGroups returns the number of groups.
func (t *Table) NumGroups() int { return t.groups }

// Bounds returns the coupling band [lo, hi] of destination group g.
// g must be valid.
func (t *Table) Bounds(g int) (lo, hi int) { return t.lower[g], t.upper[g] }

// At returns Σs(mat(cell), g, gp), or 0 when gp lies outside the band of g.
// g and cell must be valid.
func (t *Table) At(g, cell, gp int) float64 {
	if gp < t.lower[g] || gp > t.upper[g] {
		return 0
	}
	row, _ := t.bands[g].RawRow(cell)

	return row[gp-t.lower[g]]
}

// Within returns Σs(mat(cell), g, g) for every cell. The diagonal is always
// inside the band for material.Library; for other materials a diagonal outside
// the band yields zeros.
// Complexity: O(cells).
func (t *Table) Within(g int) ([]float64, error) {
	if err := t.checkGroup(opWithin, g); err != nil {
		return nil, err
	}
	out := make([]float64, t.cells)
	for c := 0; c < t.cells; c++ {
		out[c] = t.At(g, c, g)
	}

	return out, nil
}

// Row returns a copy of the band of (g, cell): entry k is Σs into g from
// Lower(g)+k.
func (t *Table) Row(g, cell int) ([]float64, error) {
	if err := t.checkGroup(opRow, g); err != nil {
		return nil, err
	}
	if cell < 0 || cell >= t.cells {
		return nil, scatterErrorf(opRow, ErrCellOutOfRange)
	}

	return t.bands[g].Row(cell)
}

// Get materializes the cells × groups matrix of destination group g with zeros
// outside the coupling band. The result is a fresh copy; mutating it does not
// affect the table.
//
// Errors:
//   - ErrGroupOutOfRange.
//
// Complexity:
//   - Time O(cells · groups), Space O(cells · groups).
func (t *Table) Get(g int) (*matrix.Dense, error) {
	if err := t.checkGroup(opGet, g); err != nil {
		return nil, err
	}
	full, err := matrix.NewDense(t.cells, t.groups)
	if err != nil {
		return nil, scatterErrorf(opGet, err)
	}
	lo := t.lower[g]
	var c int
	for c = 0; c < t.cells; c++ {
		src, _ := t.bands[g].RawRow(c)
		dst, _ := full.RawRow(c)
		copy(dst[lo:lo+len(src)], src)
	}

	return full, nil
}

func (t *Table) checkGroup(tag string, g int) error {
	if g < 0 || g >= t.groups {
		return scatterErrorf(tag, fmt.Errorf("g=%d: %w", g, ErrGroupOutOfRange))
	}

	return nil
}
