// Package logging configures the zerolog logger shared by the application.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger at the given level. Format is "json" or
// "console"; anything else falls back to json.
func New(level, format string) zerolog.Logger {
	return NewWriter(level, format, os.Stderr)
}

// NewWriter is New with an explicit output writer (used by tests).
func NewWriter(level, format string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
