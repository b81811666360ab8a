// SPDX-License-Identifier: MIT

// Package matrix: numeric policy options for Dense construction.
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - Safe by construction: the zero set of options yields the documented defaults.
package matrix

// DefaultValidateNaNInf toggles strict finite-value validation in Set.
const DefaultValidateNaNInf = true

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	validateNaNInf bool // DefaultValidateNaNInf
}

// WithNoValidateNaNInf disables finite-value validation in Set.
//
// AI-Hints:
//   - Use for scratch buffers whose contents are checked for finiteness by the
//     algorithm itself (e.g. Krylov breakdown detection).
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// gatherOptions applies user setters on top of defaults (last-writer-wins).
// Complexity: O(k) for k=len(user).
func gatherOptions(user ...Option) Options {
	o := Options{validateNaNInf: DefaultValidateNaNInf}
	for _, set := range user {
		set(&o)
	}

	return o
}
