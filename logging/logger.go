// Package logging configures the service's zerolog logger, passed
// around as a value instead of reached for as a global, so callers
// can attach room-scoped fields with .With().
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a Logger. In debug mode it writes human-readable console
// lines; otherwise it writes one JSON object per line, suited to log
// aggregation.
func New(debug bool) zerolog.Logger {
	var w = os.Stdout

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if debug {
		console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(console).Level(level).With().Timestamp().Logger()
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
