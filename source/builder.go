// SPDX-License-Identifier: MIT

package source

import (
	"fmt"

	"github.com/katalvlaran/ntransport/scatter"
	"gonum.org/v1/gonum/floats"
)

// Builder assembles scatter and fixed sources for one problem.
type Builder struct {
	table     *scatter.Table
	transform Transform
	flux      FluxState
	fission   FissionSource
	external  ExternalSource
}

// NewBuilder binds a scattering table, a moment-to-discrete transform and the
// shared flux state. Fission and external collaborators are optional.
//
// Errors:
//   - ErrNilInput.
//   - ErrDimensionMismatch when flux and table disagree on the group count.
func NewBuilder(table *scatter.Table, transform Transform, flux FluxState, opts ...Option) (*Builder, error) {
	if table == nil || transform == nil || flux == nil {
		return nil, sourceErrorf(opNewBuilder, ErrNilInput)
	}
	if flux.NumGroups() != table.NumGroups() {
		return nil, sourceErrorf(opNewBuilder, fmt.Errorf("flux has %d groups, table %d: %w",
			flux.NumGroups(), table.NumGroups(), ErrDimensionMismatch))
	}
	b := &Builder{table: table, transform: transform, flux: flux}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// NumCells returns the vector length of every source.
func (b *Builder) NumCells() int { return b.table.NumCells() }

// NumGroups returns the number of groups.
func (b *Builder) NumGroups() int { return b.table.NumGroups() }

// Table returns the scattering table the builder reads.
func (b *Builder) Table() *scatter.Table { return b.table }

// ScatterSource returns the discrete within-group scattering source
// M·(phi ∘ σs(·, g, g)).
//
// Errors:
//   - ErrGroupOutOfRange, ErrDimensionMismatch, transform errors.
//
// Complexity:
//   - O(cells) plus one transform.
func (b *Builder) ScatterSource(g int, phi []float64) ([]float64, error) {
	if err := b.checkGroup(opScatterSource, g); err != nil {
		return nil, err
	}
	if err := b.checkLen(opScatterSource, phi); err != nil {
		return nil, err
	}
	moment, err := b.table.Within(g)
	if err != nil {
		return nil, sourceErrorf(opScatterSource, err)
	}
	floats.Mul(moment, phi)
	q, err := b.transform.MomentToDiscrete(moment)
	if err != nil {
		return nil, sourceErrorf(opScatterSource, err)
	}

	return q, nil
}

// Downscatter returns the moment-space sum over g' ∈ [Lower(g), g−1] of
// flux(g') ∘ σs(·, g, g'). An empty range yields a zero vector.
func (b *Builder) Downscatter(g int) ([]float64, error) {
	if err := b.checkGroup(opDownscatter, g); err != nil {
		return nil, err
	}
	lo, _ := b.table.Bounds(g)
	acc := make([]float64, b.table.NumCells())
	if err := b.accumulate(opDownscatter, acc, g, lo, g-1); err != nil {
		return nil, err
	}

	return acc, nil
}

// Upscatter returns the moment-space sum over g' ∈ [g+1, Upper(g)] of
// flux(g') ∘ σs(·, g, g'). An empty range yields a zero vector.
func (b *Builder) Upscatter(g int) ([]float64, error) {
	if err := b.checkGroup(opUpscatter, g); err != nil {
		return nil, err
	}
	_, hi := b.table.Bounds(g)
	acc := make([]float64, b.table.NumCells())
	if err := b.accumulate(opUpscatter, acc, g, g+1, hi); err != nil {
		return nil, err
	}

	return acc, nil
}

// FixedSource assembles the discrete fixed source of group g.
//
// Implementation:
//   - Stage 1: accumulate downscatter and upscatter in one moment vector, using
//     the frozen flux of every other group.
//   - Stage 2: apply the moment-to-discrete transform once to the sum.
//   - Stage 3: add fission, then external, when attached and initialized.
//
// Errors:
//   - ErrGroupOutOfRange, ErrDimensionMismatch, collaborator errors.
//
// Complexity:
//   - O(cells · band) plus one transform.
func (b *Builder) FixedSource(g int) ([]float64, error) {
	if err := b.checkGroup(opFixedSource, g); err != nil {
		return nil, err
	}
	lo, hi := b.table.Bounds(g)

	// Stage 1: scattering from other groups.
	acc := make([]float64, b.table.NumCells())
	if err := b.accumulate(opFixedSource, acc, g, lo, g-1); err != nil {
		return nil, err
	}
	if err := b.accumulate(opFixedSource, acc, g, g+1, hi); err != nil {
		return nil, err
	}

	// Stage 2: one transform on the sum.
	q, err := b.transform.MomentToDiscrete(acc)
	if err != nil {
		return nil, sourceErrorf(opFixedSource, err)
	}
	if err = b.checkLen(opFixedSource, q); err != nil {
		return nil, err
	}

	// Stage 3: discrete contributions.
	if err = b.addDiscrete(opFixedSource, q, g); err != nil {
		return nil, err
	}

	return q, nil
}

// ExternalFixedSource assembles fission and external terms only, for callers
// that treat inter-group scattering elsewhere.
func (b *Builder) ExternalFixedSource(g int) ([]float64, error) {
	if err := b.checkGroup(opExternalFixedSource, g); err != nil {
		return nil, err
	}
	q := make([]float64, b.table.NumCells())
	if err := b.addDiscrete(opExternalFixedSource, q, g); err != nil {
		return nil, err
	}

	return q, nil
}

// accumulate adds flux(g') ∘ σs(·, g, g') for g' in [from, to] into acc.
// from > to is an empty range.
func (b *Builder) accumulate(tag string, acc []float64, g, from, to int) error {
	var c, gp int
	for gp = from; gp <= to; gp++ {
		phi := b.flux.Flux(gp)
		if err := b.checkLen(tag, phi); err != nil {
			return fmt.Errorf("flux(%d): %w", gp, err)
		}
		for c = range acc {
			acc[c] += phi[c] * b.table.At(g, c, gp)
		}
	}

	return nil
}

// addDiscrete adds the fission and external contributions of g into q.
func (b *Builder) addDiscrete(tag string, q []float64, g int) error {
	if b.fission != nil && b.fission.Initialized() {
		f, err := b.fission.Source(g)
		if err != nil {
			return sourceErrorf(tag, err)
		}
		if err = b.checkLen(tag, f); err != nil {
			return err
		}
		floats.Add(q, f)
	}
	if b.external != nil && b.external.Initialized() {
		e, err := b.external.Source(g)
		if err != nil {
			return sourceErrorf(tag, err)
		}
		if err = b.checkLen(tag, e); err != nil {
			return err
		}
		floats.Add(q, e)
	}

	return nil
}

func (b *Builder) checkGroup(tag string, g int) error {
	if g < 0 || g >= b.table.NumGroups() {
		return sourceErrorf(tag, fmt.Errorf("g=%d: %w", g, ErrGroupOutOfRange))
	}

	return nil
}

func (b *Builder) checkLen(tag string, v []float64) error {
	if len(v) != b.table.NumCells() {
		return sourceErrorf(tag, fmt.Errorf("len=%d want %d: %w", len(v), b.table.NumCells(), ErrDimensionMismatch))
	}

	return nil
}
