// Package logging opens the bctl client log.
//
// The terminal UI owns stdout, so every component logs to a plain-text file
// under the configured log directory. The log view reads the same file back
// through the logtail package.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout written to the log file.
const TimeFormat = "2006-01-02 15:04:05"

// Options configures the file logger.
type Options struct {
	Path  string
	Level string
}

// New opens (or creates) the log file and returns a logger writing to it.
// The returned closer releases the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("log path is empty")
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("open log: %w", err)
	}

	return NewWriter(file, level), file, nil
}

// NewWriter builds the console-formatted logger used for the log file.
func NewWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: TimeFormat,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a config level name to a zerolog level. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("parse log level %q: %w", name, err)
	}
	return level, nil
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
