// Package logging builds the slog.Logger used by commands.
//
// Interactive commands own the terminal, so logs never go to stderr while a
// program runs: they are written as JSON to a size-rotated file, or
// discarded when no file is configured.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Default rotation settings.
const (
	DefaultMaxSizeMB = 10
	DefaultMaxFiles  = 5
)

// Options describes where and how much to log.
type Options struct {
	Level slog.Level
	// File is the log file path. Empty discards all output.
	File      string
	MaxSizeMB int
	MaxFiles  int
}

// ParseLevel parses debug, info, warn or error, case-insensitively. An
// empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger for opts. The returned io.Closer releases the log
// file and must be closed once the logger is no longer used.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if opts.File == "" {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}
	f, err := OpenRotatingFile(opts.File, opts.MaxSizeMB, opts.MaxFiles)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", opts.File, err)
	}
	return NewWithWriter(f, opts.Level), f, nil
}

// NewWithWriter returns a JSON logger writing to w at level.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
