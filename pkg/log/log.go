// Package log builds zerolog loggers for the library. Components never reach
// for a global logger; the host application constructs one logger and passes
// it into each component at construction.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Common structured field keys used across the library.
const (
	OperationKey = "operation"
	PipelineKey  = "pipeline"
	NodeKey      = "node"
	SamplesKey   = "samples"
	FeaturesKey  = "features"
	MetricKey    = "metric"
	ScoreKey     = "score"
	IterationKey = "iteration"
)

// New returns a JSON logger writing to w at the given level. Unknown level
// strings fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Console returns a human-readable logger writing to stderr, intended for
// examples and command-line use.
func Console(level string) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
