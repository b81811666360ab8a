// SPDX-License-Identifier: MIT
package scatter_test

import (
	"testing"

	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/mesh"
	"github.com/katalvlaran/ntransport/scatter"
	"github.com/stretchr/testify/require"
)

// fixture: 2 materials, 3 groups, 4 cells alternating materials.
func fixture(t *testing.T) (*mesh.Slab, *material.Library) {
	t.Helper()
	lib, err := material.NewLibrary(2, 3)
	require.NoError(t, err)
	for m := 0; m < 2; m++ {
		f := float64(m + 1)
		for g := 0; g < 3; g++ {
			require.NoError(t, lib.SetSigmaT(m, g, 1))
			require.NoError(t, lib.SetSigmaS(m, g, g, 0.2*f))
		}
		require.NoError(t, lib.SetSigmaS(m, 1, 0, 0.05*f))
		require.NoError(t, lib.SetSigmaS(m, 2, 0, 0.01*f))
		require.NoError(t, lib.SetSigmaS(m, 2, 1, 0.07*f))
	}
	require.NoError(t, lib.SetSigmaS(1, 1, 2, 0.03))
	require.NoError(t, lib.Finalize())

	m, err := mesh.NewSlab([]mesh.Region{
		{Width: 1, Cells: 1, Material: 0},
		{Width: 1, Cells: 1, Material: 1},
		{Width: 1, Cells: 1, Material: 0},
		{Width: 1, Cells: 1, Material: 1},
	})
	require.NoError(t, err)

	return m, lib
}

func TestTableMatchesDenseReference(t *testing.T) {
	m, lib := fixture(t)
	tab, err := scatter.New(m, lib)
	require.NoError(t, err)
	require.Equal(t, 4, tab.NumCells())
	require.Equal(t, 3, tab.NumGroups())

	for g := 0; g < 3; g++ {
		full, err := tab.Get(g)
		require.NoError(t, err)
		require.Equal(t, 4, full.Rows())
		require.Equal(t, 3, full.Cols())
		lo, hi := tab.Bounds(g)
		for c := 0; c < 4; c++ {
			for gp := 0; gp < 3; gp++ {
				v, err := full.At(c, gp)
				require.NoError(t, err)
				want := 0.0
				if gp >= lo && gp <= hi {
					want = lib.SigmaS(m.Material(c), g, gp)
				}
				require.Equal(t, want, v, "g=%d c=%d gp=%d", g, c, gp)
				require.Equal(t, want, tab.At(g, c, gp))
			}
		}
	}
}

func TestTableBandsAndRows(t *testing.T) {
	m, lib := fixture(t)
	tab, err := scatter.New(m, lib)
	require.NoError(t, err)

	lo, hi := tab.Bounds(0)
	require.Equal(t, [2]int{0, 0}, [2]int{lo, hi})
	lo, hi = tab.Bounds(1)
	require.Equal(t, [2]int{0, 2}, [2]int{lo, hi})

	row, err := tab.Row(1, 1)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.1, 0.4, 0.03}, row, 1e-15)

	row[0] = 99 // copy, table unchanged
	require.InDelta(t, 0.1, tab.At(1, 1, 0), 1e-15)

	w, err := tab.Within(2)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0.2, 0.4, 0.2, 0.4}, w, 1e-15)
}

func TestTableGetReturnsCopy(t *testing.T) {
	m, lib := fixture(t)
	tab, err := scatter.New(m, lib)
	require.NoError(t, err)

	full, err := tab.Get(0)
	require.NoError(t, err)
	require.NoError(t, full.Set(0, 0, 42))
	require.InDelta(t, 0.2, tab.At(0, 0, 0), 1e-15)
}

func TestTableErrors(t *testing.T) {
	m, lib := fixture(t)

	_, err := scatter.New(nil, lib)
	require.ErrorIs(t, err, scatter.ErrNilInput)

	bad, err := mesh.NewPoint(1, 5)
	require.NoError(t, err)
	_, err = scatter.New(bad, lib)
	require.ErrorIs(t, err, scatter.ErrMaterialOutOfRange)

	tab, err := scatter.New(m, lib)
	require.NoError(t, err)
	_, err = tab.Get(3)
	require.ErrorIs(t, err, scatter.ErrGroupOutOfRange)
	_, err = tab.Get(-1)
	require.ErrorIs(t, err, scatter.ErrGroupOutOfRange)
	_, err = tab.Row(0, 4)
	require.ErrorIs(t, err, scatter.ErrCellOutOfRange)
	_, err = tab.Within(7)
	require.ErrorIs(t, err, scatter.ErrGroupOutOfRange)
	require.ErrorContains(t, err, "scatter.Within:")
	_, err = tab.Row(9, 0)
	require.ErrorContains(t, err, "scatter.Row:")
}
