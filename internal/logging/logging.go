// Package logging provides structured logging for forceops.
//
// The logger is built on log/slog and writes to stderr, following Unix
// conventions for CLI tools: stdout is reserved for command output
// (the lock listing), diagnostics go to the error stream.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Config controls logger construction. The zero value produces an
// Info-level text logger on stderr.
type Config struct {
	// Verbose lowers the minimum level to Debug.
	Verbose bool

	// Quiet raises the minimum level to Warn. Verbose wins if both
	// are set.
	Quiet bool

	// JSON switches to machine-parseable output.
	JSON bool

	// Writer overrides the destination. Defaults to os.Stderr.
	// Tests use this to capture output.
	Writer io.Writer
}

// New creates a logger from cfg.
func New(cfg Config) *slog.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if cfg.Quiet {
		level = slog.LevelWarn
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Default returns an Info-level text logger on stderr.
func Default() *slog.Logger {
	return New(Config{})
}

// Discard returns a logger that drops everything. Used by tests and by
// callers that construct an engine without caring about its output.
func Discard() *slog.Logger {
	return New(Config{Writer: io.Discard, Quiet: true})
}
