// SPDX-License-Identifier: MIT

// Package logging builds the structured slog loggers used by the solvers, the
// outer-iteration driver and the wgsolve command.
//
// Levels follow slog: DEBUG per inner iteration, INFO per outer pass, WARN on
// non-convergence or a skipped acceleration step.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	// ErrUnknownLevel indicates a level name other than debug, info, warn or error.
	ErrUnknownLevel = errors.New("logging: unknown level")

	// ErrUnknownFormat indicates a format other than text or json.
	ErrUnknownFormat = errors.New("logging: unknown format")
)

// Format selects the slog handler.
type Format string

const (
	// FormatText selects slog.TextHandler.
	FormatText Format = "text"

	// FormatJSON selects slog.JSONHandler.
	FormatJSON Format = "json"
)

// Config holds logger settings. The zero value logs INFO and above as text to
// stderr.
type Config struct {
	Level  slog.Level
	Format Format
	Writer io.Writer
}

// New returns a logger for cfg. An unknown Format falls back to text.
func New(cfg Config) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug, info, warn (or warning) and error, case-insensitively,
// to slog levels. The empty string maps to INFO.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging.ParseLevel %q: %w", s, ErrUnknownLevel)
	}
}

// ParseFormat accepts text or json, case-insensitively. The empty string maps
// to text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("logging.ParseFormat %q: %w", s, ErrUnknownFormat)
	}
}
