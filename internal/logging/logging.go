// Package logging provides a leveled printf-style logger backed by log/slog.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelInfo:
		return slog.LevelInfo
	default:
		// Above every level: used by Discard.
		return slog.LevelError + 4
	}
}

// ParseLevel parses a log level string. Unknown values map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a leveled logger. Messages are formatted with fmt.Sprintf and
// emitted through an slog text handler so attributes added with With stay
// machine-readable.
type Logger struct {
	mu     sync.Mutex
	level  *slog.LevelVar
	output io.Writer
	attrs  []any
	sl     *slog.Logger
}

// New creates a new logger writing to stderr.
func New(level Level) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level.slogLevel())
	l := &Logger{level: lv, output: os.Stderr}
	l.rebuild()
	return l
}

func (l *Logger) rebuild() {
	h := slog.NewTextHandler(l.output, &slog.HandlerOptions{Level: l.level})
	l.sl = slog.New(h).With(l.attrs...)
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.rebuild()
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// With returns a child logger that adds key/value attributes to every line.
// The child shares the parent's level.
func (l *Logger) With(args ...any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	child := &Logger{
		level:  l.level,
		output: l.output,
		attrs:  append(append([]any{}, l.attrs...), args...),
	}
	child.rebuild()
	return child
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	sl := l.sl
	l.mu.Unlock()

	ctx := context.Background()
	if !sl.Enabled(ctx, level.slogLevel()) {
		return
	}
	sl.Log(ctx, level.slogLevel(), fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	lv := new(slog.LevelVar)
	lv.Set((LevelError + 1).slogLevel())
	l := &Logger{level: lv, output: io.Discard}
	l.rebuild()
	return l
}
