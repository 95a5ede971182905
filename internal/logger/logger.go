package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with application-specific methods
type Logger struct {
	zerolog.Logger
}

// New creates a new Logger writing to stderr, leaving stdout to command output
func New(level string, format string) *Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a new Logger writing to w
func NewWithWriter(w io.Writer, level string, format string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger

	if format == "text" || format == "console" {
		// Human-readable output for interactive use
		output := zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(w).Level(lvl).With().Timestamp().Caller().Logger()
	}

	return &Logger{Logger: logger}
}

// Nop returns a Logger that discards everything
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// WithRunID returns a new logger with the invocation's run ID attached
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.With().Str("run_id", runID).Logger(),
	}
}

// WithComponent returns a new logger with the component name attached
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.With().Str("component", component).Logger(),
	}
}
