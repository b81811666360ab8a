// SPDX-License-Identifier: MIT

// Package fission provides the prescaled fission source used by the source
// builder during eigenvalue iterations.
//
// The fission density of cell c is F(c) = Σ_g' νΣf(mat(c), g')·φ_g'(c). The
// contribution to group g is χ(mat(c), g)·F(c), multiplied by the caller
// supplied scale (1/k for k-eigenvalue problems) and transformed to discrete
// form. Source(g) therefore returns a vector ready for direct addition; no
// further normalization is applied downstream.
package fission

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/mesh"
)

var (
	// ErrNilInput indicates a nil mesh, cross-section set or transform.
	ErrNilInput = errors.New("fission: nil collaborator")

	// ErrNotInitialized is returned by Source before the first Update.
	ErrNotInitialized = errors.New("fission: source not initialized")

	// ErrGroupOutOfRange indicates a group index outside [0, groups).
	ErrGroupOutOfRange = errors.New("fission: group out of range")

	// ErrDimensionMismatch indicates a flux vector of the wrong length.
	ErrDimensionMismatch = errors.New("fission: dimension mismatch")

	// ErrInvalidScale indicates a negative or non-finite scale.
	ErrInvalidScale = errors.New("fission: scale must be finite and >= 0")
)

// Transform maps moment vectors to the discrete representation.
type Transform interface {
	MomentToDiscrete(moment []float64) ([]float64, error)
}

// FluxReader is the read view of the per-group flux.
type FluxReader interface {
	NumGroups() int
	Flux(g int) []float64
}

// Source is the fission collaborator. Update and SetScale run between outer
// iterations; Source may be called concurrently.
type Source struct {
	mu        sync.RWMutex
	mesh      mesh.Mesh
	xs        material.CrossSections
	transform Transform
	density   []float64
	scale     float64
	ready     bool
}

// New binds the fission source to a mesh, cross sections and transform. The
// scale starts at 1.
func New(m mesh.Mesh, xs material.CrossSections, t Transform) (*Source, error) {
	if m == nil || xs == nil || t == nil {
		return nil, fmt.Errorf("fission.New: %w", ErrNilInput)
	}

	return &Source{mesh: m, xs: xs, transform: t, scale: 1}, nil
}

// Update recomputes the fission density from flux.
//
// Errors:
//   - ErrDimensionMismatch when the flux groups or cells disagree with the
//     cross sections or mesh.
//
// Complexity:
//   - O(groups · cells).
func (s *Source) Update(flux FluxReader) error {
	cells, groups := s.mesh.NumCells(), s.xs.NumGroups()
	if flux.NumGroups() != groups {
		return fmt.Errorf("fission.Update: groups=%d want %d: %w", flux.NumGroups(), groups, ErrDimensionMismatch)
	}
	density := make([]float64, cells)
	var c, g int
	for g = 0; g < groups; g++ {
		phi := flux.Flux(g)
		if len(phi) != cells {
			return fmt.Errorf("fission.Update: g=%d: %w", g, ErrDimensionMismatch)
		}
		for c = 0; c < cells; c++ {
			density[c] += s.xs.NuSigmaF(s.mesh.Material(c), g) * phi[c]
		}
	}

	s.mu.Lock()
	s.density, s.ready = density, true
	s.mu.Unlock()

	return nil
}

// SetScale sets the factor applied to every group contribution (1/k).
func (s *Source) SetScale(scale float64) error {
	if !(scale >= 0) || math.IsInf(scale, 0) {
		return fmt.Errorf("fission.SetScale: %v: %w", scale, ErrInvalidScale)
	}
	s.mu.Lock()
	s.scale = scale
	s.mu.Unlock()

	return nil
}

// Scale returns the current factor.
func (s *Source) Scale() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scale
}

// Initialized reports whether Update has run. A nil receiver reports false.
func (s *Source) Initialized() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ready
}

// Production returns Σ_c width(c)·F(c), the unscaled total fission rate.
func (s *Source) Production() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	for c, f := range s.density {
		sum += s.mesh.Width(c) * f
	}

	return sum
}

// Source returns the prescaled discrete fission source of group g.
//
// Errors:
//   - ErrNotInitialized, ErrGroupOutOfRange, transform errors.
func (s *Source) Source(g int) ([]float64, error) {
	if g < 0 || g >= s.xs.NumGroups() {
		return nil, fmt.Errorf("fission.Source: g=%d: %w", g, ErrGroupOutOfRange)
	}
	s.mu.RLock()
	if !s.ready {
		s.mu.RUnlock()
		return nil, fmt.Errorf("fission.Source: %w", ErrNotInitialized)
	}
	moment := make([]float64, len(s.density))
	for c, f := range s.density {
		moment[c] = s.scale * s.xs.Chi(s.mesh.Material(c), g) * f
	}
	s.mu.RUnlock()

	q, err := s.transform.MomentToDiscrete(moment)
	if err != nil {
		return nil, fmt.Errorf("fission.Source: %w", err)
	}

	return q, nil
}
