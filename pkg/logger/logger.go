package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"hls-service/pkg/config"
)

// Logger wraps a logrus logger. It is built once at startup and handed to
// every component that logs.
type Logger struct {
	log    *logrus.Logger
	closer io.Closer
}

// NewLogger builds a logger from configuration. Output "file" appends to
// cfg.Filename (creating its directory), "stdout" writes to stdout, "both"
// writes to both.
func NewLogger(cfg config.LogConfig) (*Logger, error) {
	var (
		writers []io.Writer
		closer  io.Closer
	)

	output := strings.ToLower(strings.TrimSpace(cfg.Output))
	if output == "" {
		output = "stdout"
	}
	if output == "file" || output == "both" {
		if cfg.Filename == "" {
			return nil, fmt.Errorf("log.filename is required for output %q", output)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}
	if output == "stdout" || output == "both" {
		writers = append(writers, os.Stdout)
	}

	l := newLogrus(io.MultiWriter(writers...), ResolveLevel(cfg.Level, cfg.Verbose))
	return &Logger{log: l, closer: closer}, nil
}

// NewWithWriter builds a logger writing to w. verbose=false suppresses
// everything below WARN.
func NewWithWriter(w io.Writer, verbose bool) *Logger {
	return &Logger{log: newLogrus(w, ResolveLevel("debug", verbose))}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter(io.Discard, true)
}

func newLogrus(w io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&LineFormatter{})
	l.SetLevel(level)
	return l
}

// ResolveLevel maps the configured level name to logrus. When verbose is off
// informational output is capped at WARN; errors are always written.
func ResolveLevel(name string, verbose bool) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		level = logrus.InfoLevel
	}
	if !verbose && level > logrus.WarnLevel {
		level = logrus.WarnLevel
	}
	if level < logrus.ErrorLevel {
		level = logrus.ErrorLevel
	}
	return level
}

// Level reports the active level.
func (l *Logger) Level() logrus.Level {
	return l.log.GetLevel()
}

// Writer exposes the output for libraries that want an io.Writer (gin).
func (l *Logger) Writer() io.Writer {
	return l.log.Out
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log.Errorf(format, args...) }

// Debug logs msg with optional structured fields.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.withFields(fields).Debug(msg)
}

// Info logs msg with optional structured fields.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.withFields(fields).Info(msg)
}

// Warn logs msg with optional structured fields.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.withFields(fields).Warn(msg)
}

// Error logs msg with optional structured fields.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.withFields(fields).Error(msg)
}

// Fatal logs msg and exits the process.
func (l *Logger) Fatal(msg string) {
	l.log.Fatal(msg)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) withFields(fields []map[string]interface{}) *logrus.Entry {
	entry := logrus.NewEntry(l.log)
	for _, f := range fields {
		entry = entry.WithFields(logrus.Fields(f))
	}
	return entry
}
