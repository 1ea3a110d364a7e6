// Package logging wires up the zerolog.Logger every long-running piece of
// the engine writes through: the queue applier, the CLI, and index
// lifecycle events.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level names a logging verbosity independent of zerolog's own type, so
// callers outside this package never import zerolog directly.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config controls how New builds a logger.
type Config struct {
	Level  Level
	Pretty bool
	Output io.Writer
}

// New builds a zerolog.Logger from cfg. Pretty selects a human-readable
// console writer (used by indexctl's interactive commands); the default is
// newline-delimited JSON, suited to being shipped off to a log collector.
func New(cfg Config) zerolog.Logger {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

// WithComponent returns a child logger tagging every entry with component,
// e.g. "queue", "indexctl", "addition".
func WithComponent(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

// WithIndex returns a child logger tagging every entry with the id of the
// index an operation is scoped to.
func WithIndex(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("index", name).Logger()
}
