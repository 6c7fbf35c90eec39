// Package logging configures the charmbracelet/log loggers used by mdlite
// and carries them through contexts.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // process-wide fallback logger
var fallback atomic.Pointer[log.Logger]

// New creates a logger writing to stderr at the given level.
func New(level string) *log.Logger {
	return NewWriter(os.Stderr, level)
}

// NewWriter creates a logger writing to w at the given level. Entries
// carry neither timestamps nor caller information; mdlite's log lines
// are read next to its own output, not collected.
func NewWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel converts a level name ("debug", "info", "warn" or
// "warning", "error") to a log.Level, ignoring case. Anything else is
// info.
func ParseLevel(level string) log.Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	parsed, err := log.ParseLevel(name)
	if err != nil || parsed < log.DebugLevel || parsed > log.ErrorLevel {
		return log.InfoLevel
	}
	return parsed
}

// Default returns the fallback logger used when no logger travels in a
// context. It starts at info level on stderr.
func Default() *log.Logger {
	if logger := fallback.Load(); logger != nil {
		return logger
	}
	fallback.CompareAndSwap(nil, New("info"))
	return fallback.Load()
}

// SetDefault replaces the fallback logger.
func SetDefault(logger *log.Logger) {
	fallback.Store(logger)
}

// SetLevel changes the level of the fallback logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
