// Package logging configures the file-backed application logger.
// The terminal belongs to the TUI, so logs never go to stderr while
// the program runs.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Open creates (or appends to) the log file at path and returns a
// configured logger plus the file handle for the caller to close.
func Open(path, level string) (*log.Logger, *os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	logger := log.NewWithOptions(file, log.Options{
		ReportTimestamp: true,
		Level:           ParseLevel(level),
	})

	return logger, file, nil
}

// ParseLevel maps a config string to a log level, defaulting to info.
func ParseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Discard returns a logger that writes nowhere, for tests and for
// components constructed without a logger.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
