// SPDX-License-Identifier: MIT

// Package state holds the shared per-group scalar flux and the eigenvalue
// estimate of a problem.
//
// SetFlux always stores a fresh copy, so a vector returned by Flux is never
// mutated afterwards. Readers may keep it while another goroutine publishes a
// new estimate for the same group. All methods are safe for concurrent use.
package state

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	// ErrInvalidShape indicates non-positive group or cell counts.
	ErrInvalidShape = errors.New("state: groups and cells must be > 0")

	// ErrGroupOutOfRange indicates a group index outside [0, groups).
	ErrGroupOutOfRange = errors.New("state: group out of range")

	// ErrDimensionMismatch indicates a flux vector of the wrong length.
	ErrDimensionMismatch = errors.New("state: dimension mismatch")

	// ErrInvalidEigenvalue indicates a non-positive or non-finite k.
	ErrInvalidEigenvalue = errors.New("state: eigenvalue must be finite and > 0")
)

// DefaultEigenvalue is the initial k of a new State.
const DefaultEigenvalue = 1.0

// State is the per-group flux store.
type State struct {
	mu    sync.RWMutex
	cells int
	flux  [][]float64
	k     float64
}

// New allocates groups × cells flux initialized to init (use 0 for a cold start).
func New(groups, cells int, init float64) (*State, error) {
	if groups <= 0 || cells <= 0 {
		return nil, fmt.Errorf("state.New: %w", ErrInvalidShape)
	}
	s := &State{cells: cells, flux: make([][]float64, groups), k: DefaultEigenvalue}
	for g := range s.flux {
		s.flux[g] = make([]float64, cells)
		for c := range s.flux[g] {
			s.flux[g][c] = init
		}
	}

	return s, nil
}

// NumGroups returns the number of groups.
func (s *State) NumGroups() int { return len(s.flux) }

// NumCells returns the number of cells.
func (s *State) NumCells() int { return s.cells }

// Flux returns the current flux of group g. The slice is shared and must be
// treated as read-only. Flux panics on an invalid g.
func (s *State) Flux(g int) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.flux[g]
}

// SetFlux publishes a copy of phi as the flux of group g.
func (s *State) SetFlux(g int, phi []float64) error {
	if g < 0 || g >= len(s.flux) {
		return fmt.Errorf("state.SetFlux: g=%d: %w", g, ErrGroupOutOfRange)
	}
	if len(phi) != s.cells {
		return fmt.Errorf("state.SetFlux: len=%d want %d: %w", len(phi), s.cells, ErrDimensionMismatch)
	}
	cp := make([]float64, len(phi))
	copy(cp, phi)

	s.mu.Lock()
	s.flux[g] = cp
	s.mu.Unlock()

	return nil
}

// Snapshot returns deep copies of every group flux.
func (s *State) Snapshot() [][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]float64, len(s.flux))
	for g, v := range s.flux {
		out[g] = append([]float64(nil), v...)
	}

	return out
}

// Eigenvalue returns the current k estimate.
func (s *State) Eigenvalue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.k
}

// SetEigenvalue stores a new k estimate.
func (s *State) SetEigenvalue(k float64) error {
	if !(k > 0) || math.IsInf(k, 0) {
		return fmt.Errorf("state.SetEigenvalue: %v: %w", k, ErrInvalidEigenvalue)
	}
	s.mu.Lock()
	s.k = k
	s.mu.Unlock()

	return nil
}
