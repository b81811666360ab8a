// SPDX-License-Identifier: MIT
package source_test

import (
	"testing"

	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/mesh"
	"github.com/katalvlaran/ntransport/scatter"
	"github.com/katalvlaran/ntransport/source"
	"github.com/katalvlaran/ntransport/state"
	"github.com/stretchr/testify/require"
)

// scale is a linear transform q = f·moment that counts its applications.
type scale struct {
	f     float64
	calls int
}

func (s *scale) MomentToDiscrete(m []float64) ([]float64, error) {
	s.calls++
	out := make([]float64, len(m))
	for i, v := range m {
		out[i] = s.f * v
	}

	return out, nil
}

// fixed is a discrete collaborator returning the same vector for every group.
type fixed struct {
	v    []float64
	init bool
}

func (f fixed) Source(int) ([]float64, error) { return append([]float64(nil), f.v...), nil }
func (f fixed) Initialized() bool            { return f.init }

// problem: 1 material, 3 groups, 2 cells; fluxes (g+1)·[1, 2].
func problem(t *testing.T) (*scatter.Table, *state.State) {
	t.Helper()
	lib, err := material.NewLibrary(1, 3)
	require.NoError(t, err)
	require.NoError(t, lib.SetSigmaS(0, 0, 0, 0.5))
	require.NoError(t, lib.SetSigmaS(0, 0, 1, 0.02)) // upscatter into 0
	require.NoError(t, lib.SetSigmaS(0, 1, 0, 0.1))
	require.NoError(t, lib.SetSigmaS(0, 1, 1, 0.4))
	require.NoError(t, lib.SetSigmaS(0, 1, 2, 0.03))
	require.NoError(t, lib.SetSigmaS(0, 2, 0, 0.01))
	require.NoError(t, lib.SetSigmaS(0, 2, 1, 0.2))
	require.NoError(t, lib.SetSigmaS(0, 2, 2, 0.3))
	require.NoError(t, lib.Finalize())

	m, err := mesh.NewPoint(2, 0)
	require.NoError(t, err)
	tab, err := scatter.New(m, lib)
	require.NoError(t, err)

	st, err := state.New(3, 2, 0)
	require.NoError(t, err)
	for g := 0; g < 3; g++ {
		f := float64(g + 1)
		require.NoError(t, st.SetFlux(g, []float64{f, 2 * f}))
	}

	return tab, st
}

func TestScatterSource(t *testing.T) {
	tab, st := problem(t)
	tr := &scale{f: 2}
	b, err := source.NewBuilder(tab, tr, st)
	require.NoError(t, err)

	q, err := b.ScatterSource(1, []float64{1, 3})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{2 * 0.4, 2 * 1.2}, q, 1e-15)
	require.Equal(t, 1, tr.calls)

	_, err = b.ScatterSource(1, []float64{1})
	require.ErrorIs(t, err, source.ErrDimensionMismatch)
	_, err = b.ScatterSource(3, []float64{1, 1})
	require.ErrorIs(t, err, source.ErrGroupOutOfRange)
}

func TestBoundaryGroupsContributeNothing(t *testing.T) {
	tab, st := problem(t)
	b, err := source.NewBuilder(tab, &scale{f: 1}, st)
	require.NoError(t, err)

	down, err := b.Downscatter(0)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, down)

	up, err := b.Upscatter(2)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, up)

	// Lowest group: only upscatter from group 1 (flux [2, 4]).
	q, err := b.FixedSource(0)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.02 * 2, 0.02 * 4}, q, 1e-15)

	// Highest group: only downscatter from 0 ([1, 2]) and 1 ([2, 4]).
	q, err = b.FixedSource(2)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.01*1 + 0.2*2, 0.01*2 + 0.2*4}, q, 1e-15)
}

func TestFixedSourceManualReference(t *testing.T) {
	tab, st := problem(t)
	tr := &scale{f: 0.5}
	b, err := source.NewBuilder(tab, tr, st,
		source.WithFission(fixed{v: []float64{1, 10}, init: true}),
		source.WithExternal(fixed{v: []float64{100, 1000}, init: true}),
	)
	require.NoError(t, err)

	q, err := b.FixedSource(1)
	require.NoError(t, err)
	require.Equal(t, 1, tr.calls, "transform must run once on the summed moments")

	// down: 0.1·[1,2]; up: 0.03·[3,6]
	want := []float64{
		0.5*(0.1*1+0.03*3) + 1 + 100,
		0.5*(0.1*2+0.03*6) + 10 + 1000,
	}
	require.InDeltaSlice(t, want, q, 1e-12)
}

func TestFixedSourceLinearity(t *testing.T) {
	tab, st := problem(t)
	tr := &scale{f: 3}
	ext := fixed{v: []float64{0.7, 0.9}, init: true}
	b, err := source.NewBuilder(tab, tr, st, source.WithExternal(ext))
	require.NoError(t, err)

	total, err := b.FixedSource(1)
	require.NoError(t, err)

	down, err := b.Downscatter(1)
	require.NoError(t, err)
	up, err := b.Upscatter(1)
	require.NoError(t, err)
	md, err := tr.MomentToDiscrete(down)
	require.NoError(t, err)
	mu, err := tr.MomentToDiscrete(up)
	require.NoError(t, err)
	e, err := ext.Source(1)
	require.NoError(t, err)

	for c := range total {
		require.InDelta(t, md[c]+mu[c]+e[c], total[c], 1e-14)
	}
}

func TestExternalFixedSourceSkipsScattering(t *testing.T) {
	tab, st := problem(t)
	b, err := source.NewBuilder(tab, &scale{f: 1}, st,
		source.WithFission(fixed{v: []float64{5, 5}, init: false}), // inactive
		source.WithExternal(fixed{v: []float64{1, 2}, init: true}),
	)
	require.NoError(t, err)

	q, err := b.ExternalFixedSource(1)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, q)

	b, err = source.NewBuilder(tab, &scale{f: 1}, st)
	require.NoError(t, err)
	q, err = b.ExternalFixedSource(0)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, q)
}

func TestCollaboratorLengthChecked(t *testing.T) {
	tab, st := problem(t)
	b, err := source.NewBuilder(tab, &scale{f: 1}, st,
		source.WithExternal(fixed{v: []float64{1}, init: true}))
	require.NoError(t, err)
	_, err = b.FixedSource(0)
	require.ErrorIs(t, err, source.ErrDimensionMismatch)

	_, err = source.NewBuilder(nil, &scale{f: 1}, st)
	require.ErrorIs(t, err, source.ErrNilInput)

	short, err := state.New(2, 2, 0)
	require.NoError(t, err)
	_, err = source.NewBuilder(tab, &scale{f: 1}, short)
	require.ErrorIs(t, err, source.ErrDimensionMismatch)
}

func TestIsotropic(t *testing.T) {
	tr := &scale{f: 0.25}
	iso, err := source.NewIsotropic(tr, 2, [][]float64{{4, 8}, nil})
	require.NoError(t, err)
	require.True(t, iso.Initialized())
	require.Equal(t, 2, iso.NumGroups())

	q, err := iso.Source(0)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, q)
	q[0] = 9
	q, err = iso.Source(0)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, q)

	q, err = iso.Source(1)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, q)

	_, err = iso.Source(2)
	require.ErrorIs(t, err, source.ErrGroupOutOfRange)

	_, err = source.NewIsotropic(tr, 2, [][]float64{{1}})
	require.ErrorIs(t, err, source.ErrDimensionMismatch)

	var none *source.Isotropic
	require.False(t, none.Initialized())
}
