// Package logging writes structured, line-delimited JSON logs. Command
// output goes to stdout; logs go to stderr so the two never mix.
package logging

import (
	"errors"
	"fmt"
	"strings"
)

// Level orders log entries by importance.
type Level int

const (
	// DebugLevel logs per-artifact and per-site detail
	DebugLevel Level = iota
	// InfoLevel logs run and tile type progress
	InfoLevel
	// WarnLevel marks truncated or suspicious results
	WarnLevel
	// ErrorLevel marks failed tile types and fatal input problems
	ErrorLevel
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

// ErrUnknownLevel is returned by ParseLevel for unrecognized names.
var ErrUnknownLevel = errors.New("unknown log level")

func (l Level) String() string {
	if l < DebugLevel || l > ErrorLevel {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel converts a level name, in any case, to a Level. The empty
// string is InfoLevel.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("%w %q (want one of %s)", ErrUnknownLevel, s, strings.Join(levelNames[:], ", "))
}

// Field is one key of a log entry.
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logger used throughout the module.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that adds fields to every entry.
	With(fields ...Field) Logger
	// Enabled reports whether entries at level are written.
	Enabled(level Level) bool
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
func (NopLogger) Enabled(Level) bool     { return false }

// NewNopLogger returns a logger that discards all output.
func NewNopLogger() Logger {
	return NopLogger{}
}
