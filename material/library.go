// SPDX-License-Identifier: MIT

package material

import (
	"fmt"
	"math"
)

// Operation tags.
const (
	opNewLibrary  = "NewLibrary"
	opSetSigmaT   = "SetSigmaT"
	opSetSigmaS   = "SetSigmaS"
	opSetNuSigmaF = "SetNuSigmaF"
	opSetChi      = "SetChi"
	opFinalize    = "Finalize"
)

// Library is a dense in-memory multigroup cross-section set.
//
// Storage is flat and row-major:
//   - sigmaT, nuSigmaF, chi: index m*G + g
//   - sigmaS: index (m*G + g)*G + gp   (into g from gp)
type Library struct {
	numMaterials int
	numGroups    int
	names        []string

	sigmaT   []float64
	nuSigmaF []float64
	chi      []float64
	sigmaS   []float64

	lower, upper []int
	finalized    bool
}

var _ CrossSections = (*Library)(nil)

// NewLibrary allocates an all-zero library for numMaterials × numGroups.
// Bounds default to the diagonal until Finalize recomputes them.
//
// Errors:
//   - ErrInvalidShape.
//
// Complexity:
//   - Time O(M·G²), Space O(M·G²).
func NewLibrary(numMaterials, numGroups int) (*Library, error) {
	if numMaterials <= 0 || numGroups <= 0 {
		return nil, materialErrorf(opNewLibrary, ErrInvalidShape)
	}
	lib := &Library{
		numMaterials: numMaterials,
		numGroups:    numGroups,
		names:        make([]string, numMaterials),
		sigmaT:       make([]float64, numMaterials*numGroups),
		nuSigmaF:     make([]float64, numMaterials*numGroups),
		chi:          make([]float64, numMaterials*numGroups),
		sigmaS:       make([]float64, numMaterials*numGroups*numGroups),
		lower:        make([]int, numGroups),
		upper:        make([]int, numGroups),
	}
	for g := 0; g < numGroups; g++ {
		lib.lower[g], lib.upper[g] = g, g
	}

	return lib, nil
}

// NumGroups returns the number of energy groups.
func (l *Library) NumGroups() int { return l.numGroups }

// NumMaterials returns the number of materials.
func (l *Library) NumMaterials() int { return l.numMaterials }

// Finalized reports whether Finalize has completed.
func (l *Library) Finalized() bool { return l.finalized }

// Name returns the optional label of material m.
func (l *Library) Name(m int) string { return l.names[m] }

// SetName labels material m (diagnostics only).
func (l *Library) SetName(m int, name string) error {
	if err := l.checkMutable("SetName", m, 0); err != nil {
		return err
	}
	l.names[m] = name

	return nil
}

// SigmaT returns Σt for material m in group g.
func (l *Library) SigmaT(m, g int) float64 { return l.sigmaT[m*l.numGroups+g] }

// NuSigmaF returns ν·Σf for material m in group g.
func (l *Library) NuSigmaF(m, g int) float64 { return l.nuSigmaF[m*l.numGroups+g] }

// Chi returns χ for material m in group g.
func (l *Library) Chi(m, g int) float64 { return l.chi[m*l.numGroups+g] }

// SigmaS returns Σs into g from gp for material m.
func (l *Library) SigmaS(m, g, gp int) float64 {
	return l.sigmaS[(m*l.numGroups+g)*l.numGroups+gp]
}

// Lower returns the smallest source group coupled into g.
func (l *Library) Lower(g int) int { return l.lower[g] }

// Upper returns the largest source group coupled into g.
func (l *Library) Upper(g int) int { return l.upper[g] }

// SetSigmaT stores Σt(m, g).
func (l *Library) SetSigmaT(m, g int, v float64) error {
	if err := l.checkValue(opSetSigmaT, m, g, v); err != nil {
		return err
	}
	l.sigmaT[m*l.numGroups+g] = v

	return nil
}

// SetNuSigmaF stores ν·Σf(m, g).
func (l *Library) SetNuSigmaF(m, g int, v float64) error {
	if err := l.checkValue(opSetNuSigmaF, m, g, v); err != nil {
		return err
	}
	l.nuSigmaF[m*l.numGroups+g] = v

	return nil
}

// SetChi stores χ(m, g).
func (l *Library) SetChi(m, g int, v float64) error {
	if err := l.checkValue(opSetChi, m, g, v); err != nil {
		return err
	}
	l.chi[m*l.numGroups+g] = v

	return nil
}

// SetSigmaS stores Σs(m, g ← gp).
func (l *Library) SetSigmaS(m, g, gp int, v float64) error {
	if err := l.checkValue(opSetSigmaS, m, g, v); err != nil {
		return err
	}
	if gp < 0 || gp >= l.numGroups {
		return materialErrorf(opSetSigmaS, fmt.Errorf("gp=%d: %w", gp, ErrIndexOutOfRange))
	}
	l.sigmaS[(m*l.numGroups+g)*l.numGroups+gp] = v

	return nil
}

// Finalize computes the coupling bounds and freezes the library.
//
// Implementation:
//   - Stage 1: for each destination g, scan gp over all materials and record the
//     first and last nonzero Σs(·, g, gp). The band always contains g so the
//     within-group term is addressable even when it is zero.
//   - Stage 2: mark finalized; setters fail afterwards.
//
// Complexity:
//   - Time O(M·G²).
func (l *Library) Finalize() error {
	if l.finalized {
		return materialErrorf(opFinalize, ErrFinalized)
	}
	G := l.numGroups
	var m, g, gp, lo, hi int
	for g = 0; g < G; g++ {
		lo, hi = g, g
		for m = 0; m < l.numMaterials; m++ {
			for gp = 0; gp < G; gp++ {
				if l.sigmaS[(m*G+g)*G+gp] == 0 {
					continue
				}
				if gp < lo {
					lo = gp
				}
				if gp > hi {
					hi = gp
				}
			}
		}
		l.lower[g], l.upper[g] = lo, hi
	}
	l.finalized = true

	return nil
}

// checkMutable guards setters: not finalized, indices in range.
func (l *Library) checkMutable(tag string, m, g int) error {
	if l.finalized {
		return materialErrorf(tag, ErrFinalized)
	}
	if m < 0 || m >= l.numMaterials {
		return materialErrorf(tag, fmt.Errorf("m=%d: %w", m, ErrIndexOutOfRange))
	}
	if g < 0 || g >= l.numGroups {
		return materialErrorf(tag, fmt.Errorf("g=%d: %w", g, ErrIndexOutOfRange))
	}

	return nil
}

// checkValue combines checkMutable with the numeric policy (finite, ≥ 0).
func (l *Library) checkValue(tag string, m, g int, v float64) error {
	if err := l.checkMutable(tag, m, g); err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return materialErrorf(tag, ErrNaNInf)
	}
	if v < 0 {
		return materialErrorf(tag, ErrNegative)
	}

	return nil
}
