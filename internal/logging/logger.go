// Package logging provides structured file logging for gallery.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

// Logger is the structured logging interface.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, args ...any)
	// Info logs an informational message.
	Info(msg string, args ...any)
	// Warn logs a warning message.
	Warn(msg string, args ...any)
	// Error logs an error message.
	Error(msg string, args ...any)
	// With returns a new logger with additional key-value pairs.
	With(args ...any) Logger
	// Close flushes and releases the log file, if any.
	Close() error
}

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level to record.
	Level string
	// Format is "text" (logfmt) or "json".
	Format string
	// Dir is where gallery.log is written. Empty disables file logging.
	Dir string
}

// FileName is the name of the log file inside Config.Dir.
const FileName = "gallery.log"

type logger struct {
	clogger *clog.Logger
	closer  io.Closer
}

// Open creates a logger writing to Config.Dir/gallery.log. Logs stay out of
// the terminal so they never corrupt the TUI.
func Open(cfg Config) (Logger, error) {
	if cfg.Dir == "" {
		return NewNop(), nil
	}
	if err := os.MkdirAll(cfg.Dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.Dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := New(f, cfg).(*logger)
	l.closer = f
	return l, nil
}

// New creates a logger writing to w.
func New(w io.Writer, cfg Config) Logger {
	clogger := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           ParseLevel(cfg.Level),
		Formatter:       parseFormatter(cfg.Format),
	})
	return &logger{clogger: clogger}
}

// ParseLevel converts a string level to clog.Level. Unknown levels map to info.
func ParseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "info":
		return clog.InfoLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func parseFormatter(format string) clog.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return clog.JSONFormatter
	default:
		return clog.LogfmtFormatter
	}
}

func (l *logger) Debug(msg string, args ...any) { l.clogger.Debug(msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.clogger.Info(msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.clogger.Warn(msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.clogger.Error(msg, args...) }

func (l *logger) With(args ...any) Logger {
	// Children share the file; only the root closes it.
	return &logger{clogger: l.clogger.With(args...)}
}

func (l *logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// nopLogger is a logger that discards all output.
type nopLogger struct{}

// NewNop returns a logger that discards everything.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(msg string, args ...any) {}
func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}
func (n nopLogger) With(args ...any) Logger     { return n }
func (nopLogger) Close() error                  { return nil }
