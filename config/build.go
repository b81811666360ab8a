// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"github.com/katalvlaran/ntransport/discrete"
	"github.com/katalvlaran/ntransport/fission"
	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/mesh"
	"github.com/katalvlaran/ntransport/scatter"
	"github.com/katalvlaran/ntransport/solver"
	"github.com/katalvlaran/ntransport/source"
	"github.com/katalvlaran/ntransport/state"
)

// Problem bundles the collaborators assembled from a ProblemConfig.
// Fission is nil when no material fissions; External is nil when no region
// carries a source.
type Problem struct {
	Library  *material.Library
	Mesh     *mesh.Slab
	Disc     discrete.Discretization
	Table    *scatter.Table
	State    *state.State
	Fission  *fission.Source
	External *source.Isotropic
	Sources  *source.Builder
	Setup    solver.Setup
}

// Build assembles the problem. Eigen mode starts from a unit flux so the
// first fission update has something to work with; fixed mode starts from
// zero.
//
// Implementation:
//   - Stage 1: cross-section library, finalized for coupling bounds.
//   - Stage 2: slab mesh from regions; discretization of the configured dimension.
//   - Stage 3: scattering table, flux state, fission and external sources.
//   - Stage 4: source builder and solver setup.
//
// Errors:
//   - Validate errors, then any constructor error of the assembled packages.
func (c Config) Build() (*Problem, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p := c.Problem

	// Stage 1: cross sections.
	lib, fissile, err := p.library()
	if err != nil {
		return nil, configErrorf("Build", err)
	}

	// Stage 2: geometry.
	regions := make([]mesh.Region, len(p.Regions))
	for i, r := range p.Regions {
		regions[i] = mesh.Region{Width: r.Width, Cells: r.Cells, Material: r.Material}
	}
	m, err := mesh.NewSlab(regions)
	if err != nil {
		return nil, configErrorf("Build", err)
	}
	dim, _ := discrete.ParseDimension(p.Discretization)
	disc, err := discrete.New(dim, m, lib,
		discrete.WithOrder(p.Order),
		discrete.WithNormalization(p.Normalization),
	)
	if err != nil {
		return nil, configErrorf("Build", err)
	}

	// Stage 3: table, state, sources.
	table, err := scatter.New(m, lib)
	if err != nil {
		return nil, configErrorf("Build", err)
	}
	init := 0.0
	if c.Outer.Mode == ModeEigen {
		init = 1
	}
	st, err := state.New(lib.NumGroups(), m.NumCells(), init)
	if err != nil {
		return nil, configErrorf("Build", err)
	}
	prob := &Problem{Library: lib, Mesh: m, Disc: disc, Table: table, State: st}

	var opts []source.Option
	if fissile {
		if prob.Fission, err = fission.New(m, lib, disc); err != nil {
			return nil, configErrorf("Build", err)
		}
		opts = append(opts, source.WithFission(prob.Fission))
	}
	if moments := p.moments(m.NumCells()); moments != nil {
		if prob.External, err = source.NewIsotropic(disc, m.NumCells(), moments); err != nil {
			return nil, configErrorf("Build", err)
		}
		opts = append(opts, source.WithExternal(prob.External))
	}

	// Stage 4: builder and setup.
	if prob.Sources, err = source.NewBuilder(table, disc, st, opts...); err != nil {
		return nil, configErrorf("Build", err)
	}
	if prob.Setup, err = solver.NewSetup(disc, table, prob.Sources, st); err != nil {
		return nil, configErrorf("Build", err)
	}

	return prob, nil
}

// library fills and finalizes the cross-section library.
func (p ProblemConfig) library() (*material.Library, bool, error) {
	G := p.NumGroups()
	lib, err := material.NewLibrary(len(p.Materials), G)
	if err != nil {
		return nil, false, err
	}
	fissile := false
	var g, gp int
	for i, mc := range p.Materials {
		if err = lib.SetName(i, mc.Name); err != nil {
			return nil, false, err
		}
		for g = 0; g < G; g++ {
			if err = lib.SetSigmaT(i, g, mc.SigmaT[g]); err != nil {
				return nil, false, fmt.Errorf("material %d: %w", i, err)
			}
			if mc.NuSigmaF != nil {
				if err = lib.SetNuSigmaF(i, g, mc.NuSigmaF[g]); err != nil {
					return nil, false, fmt.Errorf("material %d: %w", i, err)
				}
				fissile = fissile || mc.NuSigmaF[g] > 0
			}
			if mc.Chi != nil {
				if err = lib.SetChi(i, g, mc.Chi[g]); err != nil {
					return nil, false, fmt.Errorf("material %d: %w", i, err)
				}
			}
			for gp = 0; gp < G; gp++ {
				if err = lib.SetSigmaS(i, g, gp, mc.SigmaS[g][gp]); err != nil {
					return nil, false, fmt.Errorf("material %d: %w", i, err)
				}
			}
		}
	}
	if err = lib.Finalize(); err != nil {
		return nil, false, err
	}

	return lib, fissile, nil
}

// moments expands per-region source strengths to per-group, per-cell
// vectors, or returns nil when no region has a source.
func (p ProblemConfig) moments(cells int) [][]float64 {
	found := false
	for _, r := range p.Regions {
		if r.Source != nil {
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	G := p.NumGroups()
	out := make([][]float64, G)
	for g := range out {
		out[g] = make([]float64, cells)
	}
	c := 0
	for _, r := range p.Regions {
		for k := 0; k < r.Cells; k++ {
			for g, q := range r.Source {
				out[g][c] = q
			}
			c++
		}
	}

	return out
}
