// SPDX-License-Identifier: MIT

// Package mesh provides the spatial-mesh contract consumed by the scatter table
// and reference discretizations, plus a 1D Slab built from coarse regions.
package mesh

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyMesh is returned when a mesh would have no cells.
	ErrEmptyMesh = errors.New("mesh: mesh has no cells")

	// ErrInvalidRegion indicates a region with non-positive width/cells or a
	// negative material index.
	ErrInvalidRegion = errors.New("mesh: invalid region")
)

// Mesh is the read-only view of a spatial mesh.
type Mesh interface {
	// NumCells returns the number of cells.
	NumCells() int

	// Material returns the material index assigned to cell.
	Material(cell int) int

	// Width returns the cell width along the sweep axis (1 for point meshes).
	Width(cell int) float64
}

// Region is a coarse slab segment of uniform material split into Cells fine cells.
type Region struct {
	Width    float64 `yaml:"width"`
	Cells    int     `yaml:"cells"`
	Material int     `yaml:"material"`
}

// Slab is a 1D mesh of contiguous cells.
type Slab struct {
	widths    []float64
	materials []int
}

var _ Mesh = (*Slab)(nil)

// NewSlab expands coarse regions into fine cells, left to right.
//
// Errors:
//   - ErrEmptyMesh when regions is empty.
//   - ErrInvalidRegion for non-positive/non-finite width, non-positive cell
//     count, or negative material index.
//
// Complexity: O(total cells).
func NewSlab(regions []Region) (*Slab, error) {
	if len(regions) == 0 {
		return nil, ErrEmptyMesh
	}
	s := &Slab{}
	for i, r := range regions {
		if r.Cells <= 0 || r.Material < 0 || !(r.Width > 0) || math.IsInf(r.Width, 0) {
			return nil, fmt.Errorf("NewSlab: region %d: %w", i, ErrInvalidRegion)
		}
		dx := r.Width / float64(r.Cells)
		for c := 0; c < r.Cells; c++ {
			s.widths = append(s.widths, dx)
			s.materials = append(s.materials, r.Material)
		}
	}

	return s, nil
}

// NewPoint returns a mesh of n unit-width cells all assigned to material.
// Used for homogeneous (infinite-medium) problems.
func NewPoint(n, material int) (*Slab, error) {
	if n <= 0 {
		return nil, ErrEmptyMesh
	}

	return NewSlab([]Region{{Width: float64(n), Cells: n, Material: material}})
}

// NumCells returns the number of fine cells.
func (s *Slab) NumCells() int { return len(s.widths) }

// Material returns the material of cell.
func (s *Slab) Material(cell int) int { return s.materials[cell] }

// Width returns the width of cell.
func (s *Slab) Width(cell int) float64 { return s.widths[cell] }

// Length returns the total slab length.
func (s *Slab) Length() float64 {
	var sum float64
	for _, w := range s.widths {
		sum += w
	}

	return sum
}
