// Package logging builds contline's file logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"charm.land/log/v2"
)

// LevelOff disables file logging.
const LevelOff = "off"

// Config holds logging configuration
type Config struct {
	Level string // off, debug, info, warn, error
	File  string // empty means DefaultPath
}

// Logger is a charm logger plus the file it writes to.
type Logger struct {
	*log.Logger
	file *os.File
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})}
}

// New opens cfg.File for appending and returns a logger at cfg.Level.
// Level "off" or "" returns Discard().
func New(cfg Config, defaultPath func() (string, error)) (*Logger, error) {
	level := strings.ToLower(strings.TrimSpace(cfg.Level))
	if level == "" || level == LevelOff {
		return Discard(), nil
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	path := cfg.File
	if path == "" && defaultPath != nil {
		if path, err = defaultPath(); err != nil {
			return nil, fmt.Errorf("failed to get log path: %w", err)
		}
	}
	if path == "" {
		return nil, fmt.Errorf("no log file configured")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - path comes from the user's config or XDG state dir
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		Logger: NewWriter(f, lvl),
		file:   f,
	}, nil
}

// NewWriter returns a charm logger at level writing text lines to w.
func NewWriter(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "contline",
	})
}

// Path returns the file being written, or "" for a discarding logger.
func (l *Logger) Path() string {
	if l == nil || l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
