package logger

import (
	"io"
	"log/slog"
)

const (
	// MaxVerbosity is the highest meaningful -v count.
	MaxVerbosity = 3

	// TraceVerbosity turns on source locations and subprocess argv logging.
	TraceVerbosity = 3
)

// Level maps the -v count to a slog level: 0 warn, 1 info, 2 and up debug.
func Level(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Clamp limits a -v count to the 0..MaxVerbosity range.
func Clamp(verbosity int) int {
	return max(0, min(verbosity, MaxVerbosity))
}

func New(verbosity int, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     Level(verbosity),
		AddSource: verbosity >= TraceVerbosity,
	}

	return slog.New(slog.NewTextHandler(w, opts)).With("app", "futile")
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
