// SPDX-License-Identifier: MIT

// Package material defines the multigroup cross-section contract consumed by
// the transport solver and an in-memory Library implementation.
//
// Conventions:
//   - Groups are 0-indexed; g = 0 is the highest-energy group.
//   - SigmaS(m, g, gp) is the scattering cross section INTO group g FROM group gp.
//   - Lower(g) ≤ gp ≤ Upper(g) bounds the nonzero coupling band of group g over
//     all materials. gp < g is downscatter, gp > g is upscatter.
//
// A Library is mutable until Finalize, which validates the data and computes
// the coupling bounds; afterwards it is read-only and safe for concurrent use.
package material
