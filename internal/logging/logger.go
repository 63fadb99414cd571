// Package logging provides a leveled logger.
//
// The timer UI owns the terminal, so interactive runs log to a file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Level represents the logging level.
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelInfo
	LevelVerbose
	LevelDebug
)

var levelNames = map[string]Level{
	"silent":  LevelSilent,
	"error":   LevelError,
	"info":    LevelInfo,
	"verbose": LevelVerbose,
	"debug":   LevelDebug,
}

// ParseLevel converts a level name to a Level.
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return LevelInfo, nil
	}
	level, ok := levelNames[name]
	if !ok {
		return LevelInfo, fmt.Errorf("unknown log level %q (use silent, error, info, verbose or debug)", name)
	}
	return level, nil
}

// Logger writes level-filtered lines to a single sink.
type Logger struct {
	mu     sync.Mutex
	level  Level
	out    *log.Logger
	closer io.Closer
}

// New creates a logger writing to w.
func New(level Level, w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		level: level,
		out:   log.New(w, "", log.LstdFlags),
	}
}

// Open creates a logger appending to path. An empty path logs to stderr.
func Open(level Level, path string) (*Logger, error) {
	if path == "" {
		return New(level, os.Stderr), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := New(level, file)
	l.closer = file
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(LevelSilent, io.Discard)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// Error logs an error message.
func (l *Logger) Error(format string, v ...any) {
	l.logf(LevelError, "ERROR", format, v...)
}

// Info logs an info message.
func (l *Logger) Info(format string, v ...any) {
	l.logf(LevelInfo, "INFO", format, v...)
}

// Verbose logs a verbose message.
func (l *Logger) Verbose(format string, v ...any) {
	l.logf(LevelVerbose, "VERBOSE", format, v...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, v ...any) {
	l.logf(LevelDebug, "DEBUG", format, v...)
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) logf(level Level, tag, format string, v ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level < level {
		return
	}
	l.out.Println(tag + ": " + fmt.Sprintf(format, v...))
}
