// SPDX-License-Identifier: MIT

// Package discrete defines the sweep/transform capability the within-group
// solvers are generic over, and two reference discretizations.
//
// A Discretization bundles three linear operators:
//
//	Sweep(g, q)           ψ = L⁻¹ q     (discrete source → angular flux)
//	MomentToDiscrete(v)   M v           (moment space → discrete space)
//	DiscreteToMoment(ψ)   D ψ           (angular flux → scalar flux)
//
// Solvers never special-case dimensionality; they only see this interface.
// Reference variants:
//
//   - Homogeneous: infinite medium, one direction, ψ = q/Σt. With unit Σt and
//     unit normalization it is the identity-like operator used in tests.
//   - Slab1D: diamond-difference S_N on a 1D slab with vacuum boundaries and
//     fixed Gauss–Legendre S2/S4/S8 sets.
//
// Structured and unstructured 2D kernels are valid Dimension values for
// externally supplied implementations; New rejects them because no reference
// kernel ships with this module.
package discrete
