// SPDX-License-Identifier: MIT
package discrete_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/ntransport/discrete"
	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/mesh"
	"github.com/stretchr/testify/require"
)

// absorber returns a one-group pure absorber with Σt = st.
func absorber(t *testing.T, st float64) *material.Library {
	t.Helper()
	lib, err := material.NewLibrary(1, 1)
	require.NoError(t, err)
	require.NoError(t, lib.SetSigmaT(0, 0, st))
	require.NoError(t, lib.Finalize())

	return lib
}

func TestHomogeneousIdentityLike(t *testing.T) {
	m, err := mesh.NewPoint(2, 0)
	require.NoError(t, err)
	d, err := discrete.NewHomogeneous(m, absorber(t, 1.0))
	require.NoError(t, err)

	q := []float64{0.25, 3}
	qd, err := d.MomentToDiscrete(q)
	require.NoError(t, err)
	psi, err := d.Sweep(0, qd)
	require.NoError(t, err)
	phi, err := d.DiscreteToMoment(psi)
	require.NoError(t, err)
	require.Equal(t, q, phi)
	require.Equal(t, discrete.Homogeneous, d.Dimension())
	require.Equal(t, 1, d.NumAngles())
}

func TestHomogeneousNormalization(t *testing.T) {
	m, err := mesh.NewPoint(1, 0)
	require.NoError(t, err)
	d, err := discrete.NewHomogeneous(m, absorber(t, 2.0), discrete.WithNormalization(4*math.Pi))
	require.NoError(t, err)

	qd, err := d.MomentToDiscrete([]float64{4 * math.Pi})
	require.NoError(t, err)
	require.InDelta(t, 1.0, qd[0], 1e-15)

	psi, err := d.Sweep(0, qd)
	require.NoError(t, err)
	phi, err := d.DiscreteToMoment(psi)
	require.NoError(t, err)
	require.InDelta(t, 2*math.Pi, phi[0], 1e-12) // q/Σt

	require.Panics(t, func() { discrete.WithNormalization(0) })
}

func TestHomogeneousErrors(t *testing.T) {
	m, err := mesh.NewPoint(1, 0)
	require.NoError(t, err)
	d, err := discrete.NewHomogeneous(m, absorber(t, 0))
	require.NoError(t, err)

	_, err = d.Sweep(0, []float64{1})
	require.ErrorIs(t, err, discrete.ErrVoidCell)

	_, err = d.Sweep(0, []float64{1, 2})
	require.ErrorIs(t, err, discrete.ErrDimensionMismatch)

	_, err = d.DiscreteToMoment(discrete.AngularFlux{{1}, {2}})
	require.ErrorIs(t, err, discrete.ErrDimensionMismatch)

	_, err = discrete.NewHomogeneous(nil, absorber(t, 1))
	require.ErrorIs(t, err, discrete.ErrNilInput)
}

func TestSlab1DThickInteriorMatchesInfiniteMedium(t *testing.T) {
	// 200 mfp thick absorber: interior flux approaches q/Σt.
	m, err := mesh.NewSlab([]mesh.Region{{Width: 200, Cells: 400}})
	require.NoError(t, err)
	d, err := discrete.NewSlab1D(m, absorber(t, 1.0), discrete.WithOrder(8))
	require.NoError(t, err)
	require.Equal(t, 8, d.NumAngles())

	q := make([]float64, m.NumCells())
	for i := range q {
		q[i] = 1
	}
	qd, err := d.MomentToDiscrete(q)
	require.NoError(t, err)
	psi, err := d.Sweep(0, qd)
	require.NoError(t, err)
	phi, err := d.DiscreteToMoment(psi)
	require.NoError(t, err)

	mid := m.NumCells() / 2
	require.InDelta(t, 1.0, phi[mid], 1e-10)
	require.Less(t, phi[0], 0.9*phi[mid]) // leakage at vacuum edges
	require.InDelta(t, phi[0], phi[m.NumCells()-1], 1e-12)
}

func TestSlab1DSweepIsLinear(t *testing.T) {
	lib, err := material.NewLibrary(2, 1)
	require.NoError(t, err)
	require.NoError(t, lib.SetSigmaT(0, 0, 1.0))
	require.NoError(t, lib.SetSigmaT(1, 0, 0.2))
	require.NoError(t, lib.Finalize())
	m, err := mesh.NewSlab([]mesh.Region{{Width: 1, Cells: 3, Material: 0}, {Width: 2, Cells: 3, Material: 1}})
	require.NoError(t, err)
	d, err := discrete.NewSlab1D(m, lib, discrete.WithOrder(4))
	require.NoError(t, err)

	a := []float64{1, 0, 2, 0, 1, 3}
	b := []float64{0, 5, 1, 1, 0, 2}
	ab := make([]float64, len(a))
	for i := range a {
		ab[i] = 2*a[i] - 0.5*b[i]
	}
	pa, err := d.Sweep(0, a)
	require.NoError(t, err)
	pb, err := d.Sweep(0, b)
	require.NoError(t, err)
	pab, err := d.Sweep(0, ab)
	require.NoError(t, err)
	for k := range pab {
		for c := range pab[k] {
			require.InDelta(t, 2*pa[k][c]-0.5*pb[k][c], pab[k][c], 1e-13)
		}
	}
}

func TestNewDimensions(t *testing.T) {
	m, err := mesh.NewPoint(1, 0)
	require.NoError(t, err)
	xs := absorber(t, 1)

	d, err := discrete.New(discrete.OneD, m, xs, discrete.WithOrder(2))
	require.NoError(t, err)
	require.Equal(t, discrete.OneD, d.Dimension())

	_, err = discrete.New(discrete.OneD, m, xs, discrete.WithOrder(6))
	require.ErrorIs(t, err, discrete.ErrUnsupportedOrder)

	_, err = discrete.New(discrete.TwoDStructured, m, xs)
	require.ErrorIs(t, err, discrete.ErrUnsupportedDiscretization)

	dim, err := discrete.ParseDimension("Slab")
	require.NoError(t, err)
	require.Equal(t, discrete.OneD, dim)
	require.Equal(t, "2d-unstructured", discrete.TwoDUnstructured.String())
	require.False(t, discrete.Dimension(9).Valid())

	_, err = discrete.ParseDimension("3d")
	require.ErrorIs(t, err, discrete.ErrUnsupportedDiscretization)
}
