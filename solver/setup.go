// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"github.com/katalvlaran/ntransport/discrete"
	"github.com/katalvlaran/ntransport/scatter"
	"github.com/katalvlaran/ntransport/source"
)

// FluxStore is the read/write view of the shared per-group flux. SetFlux must
// store a copy; the solver keeps using its own buffers afterwards.
type FluxStore interface {
	NumGroups() int
	Flux(g int) []float64
	SetFlux(g int, phi []float64) error
}

// Setup is the immutable context shared by every kernel: the discretization
// (sweep and transforms), the scattering table, the source builder and the
// flux store. Build it once with NewSetup and pass it by value.
type Setup struct {
	disc    discrete.Discretization
	table   *scatter.Table
	sources *source.Builder
	flux    FluxStore
}

// NewSetup validates the collaborators once.
//
// Errors:
//   - ErrInvalidSetup for nil collaborators, or cell or group counts that
//     disagree.
//   - ErrUnsupportedDiscretization for an unknown dimension.
func NewSetup(d discrete.Discretization, table *scatter.Table, sources *source.Builder, flux FluxStore) (Setup, error) {
	if d == nil || table == nil || sources == nil || flux == nil {
		return Setup{}, solverErrorf("NewSetup", fmt.Errorf("nil collaborator: %w", ErrInvalidSetup))
	}
	if !d.Dimension().Valid() {
		return Setup{}, solverErrorf("NewSetup", fmt.Errorf("%s: %w", d.Dimension(), ErrUnsupportedDiscretization))
	}
	cells := d.NumCells()
	if table.NumCells() != cells || sources.NumCells() != cells {
		return Setup{}, solverErrorf("NewSetup", fmt.Errorf("cells: discretization %d, table %d, sources %d: %w",
			cells, table.NumCells(), sources.NumCells(), ErrInvalidSetup))
	}
	if groups := table.NumGroups(); flux.NumGroups() != groups {
		return Setup{}, solverErrorf("NewSetup", fmt.Errorf("groups: table %d, flux %d: %w",
			groups, flux.NumGroups(), ErrInvalidSetup))
	}
	if sources.Table() != table {
		return Setup{}, solverErrorf("NewSetup", fmt.Errorf("source builder reads a different table: %w", ErrInvalidSetup))
	}

	return Setup{disc: d, table: table, sources: sources, flux: flux}, nil
}

// Discretization returns the sweep and transform capability.
func (s Setup) Discretization() discrete.Discretization { return s.disc }

// Table returns the scattering table.
func (s Setup) Table() *scatter.Table { return s.table }

// Sources returns the source builder.
func (s Setup) Sources() *source.Builder { return s.sources }

// Flux returns the flux store.
func (s Setup) Flux() FluxStore { return s.flux }

// NumGroups returns the number of energy groups.
func (s Setup) NumGroups() int { return s.table.NumGroups() }

// NumCells returns the vector length of every flux and source.
func (s Setup) NumCells() int { return s.disc.NumCells() }

func (s Setup) valid() bool { return s.disc != nil }
