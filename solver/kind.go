// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"strings"
)

// Kind selects a within-group kernel.
type Kind int

const (
	// KindSourceIteration is plain fixed-point iteration.
	KindSourceIteration Kind = iota
	// KindLivolant is fixed-point iteration with periodic extrapolation.
	KindLivolant
	// KindKrylov is restarted GMRES.
	KindKrylov
)

// String returns the canonical name used in configuration and metrics.
func (k Kind) String() string {
	switch k {
	case KindSourceIteration:
		return "source-iteration"
	case KindLivolant:
		return "livolant"
	case KindKrylov:
		return "krylov"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "si", "source-iteration", "livolant", "gmres" and "krylov"
// (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "source-iteration", "source_iteration":
		return KindSourceIteration, nil
	case "livolant":
		return KindLivolant, nil
	case "gmres", "krylov":
		return KindKrylov, nil
	}

	return 0, solverErrorf("ParseKind", fmt.Errorf("%q: %w", s, ErrUnknownKind))
}
