// Package logging builds the zerolog logger used across the application.
// The terminal belongs to the UI, so records go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls where and how much is logged
type Options struct {
	Level string // trace, debug, info, warn, error, disabled
	File  string // empty disables file logging
	Human bool   // console format instead of JSON
}

// New opens the log file and returns a logger plus a closer for the file.
// The global zerolog logger is redirected as well.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	if opts.File == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("failed to open log file: %w", err)
	}

	return NewWithWriter(f, opts), f, nil
}

// NewWithWriter builds a logger writing to w
func NewWithWriter(w io.Writer, opts Options) zerolog.Logger {
	if opts.Human {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	zl := zerolog.New(w).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
	log.Logger = zl
	return zl
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
