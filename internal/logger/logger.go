// Package logger is the diagnostic channel. The terminal belongs to the
// dashboard, so logs go to a file or are discarded.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

var globalLogger = zerolog.Nop()

type Config struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
	// Stderr also writes to standard error. Only useful for commands that do not own the screen.
	Stderr bool `toml:"stderr"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init builds the global logger. The returned closer releases the log file.
func Init(cfg Config) (io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		if dir := filepath.Dir(cfg.File); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating log directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open debug log file %q: %w", cfg.File, err)
		}
		writers = append(writers, f)
		closer = f
	}
	if cfg.Stderr {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}

	if len(writers) == 0 {
		globalLogger = zerolog.Nop()
		return closer, nil
	}

	globalLogger = New(io.MultiWriter(writers...), level)
	return closer, nil
}

// New returns a timestamped logger writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func Get() zerolog.Logger {
	return globalLogger
}

// Set replaces the global logger, e.g. with one writing into a test buffer.
func Set(l zerolog.Logger) {
	globalLogger = l
}

func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}
