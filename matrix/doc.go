// SPDX-License-Identifier: MIT

// Package matrix provides the small dense linear-algebra core used by the
// transport solver: a row-major Dense buffer behind the Matrix interface,
// centralized validators, and matrix–vector kernels.
//
// The package is deliberately narrow:
//
//   - Dense stores scattering bands (cells × band width) for the scatter table
//     and the Krylov basis / Hessenberg factors for GMRES.
//   - At/Set are bounds-checked and never panic; hot loops inside this module
//     use RawRow to work on the flat slice directly.
//   - MatTVec is deterministic (fixed i→j order) so solver results are
//     reproducible bit-for-bit across runs.
//
// Numeric policy: Set rejects NaN/±Inf by default (DefaultValidateNaNInf).
// Buffers that may legitimately carry non-finite intermediates (e.g. a Krylov
// basis during breakdown detection) are created with WithNoValidateNaNInf.
package matrix
