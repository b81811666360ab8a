// SPDX-License-Identifier: MIT

// Package source assembles the per-group source vectors consumed by a sweep.
//
// Two kinds of sources exist:
//
//   - the within-group scattering source, rebuilt every inner iteration from the
//     current flux estimate of the active group (ScatterSource);
//   - the fixed source, assembled once per group per outer pass from the frozen
//     flux of every other group plus fission and external contributions
//     (FixedSource), or from fission and external terms only
//     (ExternalFixedSource).
//
// Scattering contributions are accumulated in moment space and transformed to
// the discrete representation exactly once, after summation. Fission and
// external contributions arrive already in discrete form and are added last.
//
// Group ranges that are empty (the first group has no downscatter, the last has
// no upscatter) contribute zero vectors and never produce errors.
//
// A Builder holds no per-solve buffers and may be shared by several solver
// instances; it reads flux through the FluxState it was built with.
package source
