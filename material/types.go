// SPDX-License-Identifier: MIT

package material

// Material is the scattering contract required to build a scatter table.
//
// Implementations must be read-only once handed to the solver.
type Material interface {
	// NumGroups returns the number of energy groups.
	NumGroups() int

	// NumMaterials returns the number of materials.
	NumMaterials() int

	// SigmaS returns the scattering cross section into g from gp for material m.
	SigmaS(m, g, gp int) float64

	// Lower returns the smallest source group coupled into g.
	Lower(g int) int

	// Upper returns the largest source group coupled into g.
	Upper(g int) int
}

// CrossSections extends Material with the data used by reference sweeps and
// the fission source.
type CrossSections interface {
	Material

	// SigmaT returns the total cross section of material m in group g.
	SigmaT(m, g int) float64

	// NuSigmaF returns ν·Σf of material m in group g.
	NuSigmaF(m, g int) float64

	// Chi returns the fission spectrum of material m in group g.
	Chi(m, g int) float64
}

// ValidateBounds checks that every group's coupling band lies inside
// [0, NumGroups()) and is ordered.
// Complexity: O(G).
func ValidateBounds(m Material) error {
	n := m.NumGroups()
	var g, lo, hi int
	for g = 0; g < n; g++ {
		lo, hi = m.Lower(g), m.Upper(g)
		if lo < 0 || hi >= n || lo > hi {
			return materialErrorf("ValidateBounds", ErrInvalidBounds)
		}
	}

	return nil
}
