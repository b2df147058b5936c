// Package diag is the single diagnostic channel the driver uses for
// informational output sampling notices and non-fatal tolerance warnings,
// built on the standard library's structured logger so call sites
// attach variable name/time/field as structured attributes instead of
// formatting ad-hoc strings.
package diag

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the diagnostic channel. The zero value (and a nil *Logger)
// silently drops every record; use New or Default to write output.
type Logger struct {
	sl *slog.Logger
}

// New returns a Logger writing structured text lines to w.
func New(w io.Writer) *Logger {
	return &Logger{sl: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// Default returns a Logger writing to os.Stderr.
func Default() *Logger {
	return New(os.Stderr)
}

// Discard returns a Logger that drops every record; used by tests that don't
// want diagnostic noise on stderr.
func Discard() *Logger {
	return &Logger{sl: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Warn emits a non-fatal tolerance warning.
func (l *Logger) Warn(msg string, args ...any) {
	if l == nil || l.sl == nil {
		return
	}
	l.sl.Warn(msg, args...)
}

// Info emits an informational message (e.g. output-sample scheduling notes).
func (l *Logger) Info(msg string, args ...any) {
	if l == nil || l.sl == nil {
		return
	}
	l.sl.Info(msg, args...)
}
