// Package logging provides levelled key/value logging.
//
// Output goes to the writer given to New, normally os.Stderr: when the
// binary runs as an MCP server, stdout carries the protocol and must stay clean.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel converts "debug", "info", "warn"/"warning" or "error" to a Level.
// Anything else is LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes "[prefix] [LEVEL] msg k=v ..." lines.
type Logger struct {
	prefix string
	level  Level
	logger *log.Logger
	fields []interface{}
}

// New creates a logger that drops messages below level.
func New(prefix string, level Level, w io.Writer) *Logger {
	return &Logger{
		prefix: prefix,
		level:  level,
		logger: log.New(w, fmt.Sprintf("[%s] ", prefix), log.LstdFlags),
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New("discard", LevelError+1, io.Discard)
}

// With returns a logger that appends keysAndValues to every message.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	c := *l
	c.fields = append(append([]interface{}(nil), l.fields...), keysAndValues...)
	return &c
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelDebug, msg, keysAndValues...)
}

// Info logs an informational message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelInfo, msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelWarn, msg, keysAndValues...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelError, msg, keysAndValues...)
}

func (l *Logger) logWithKV(level Level, msg string, keysAndValues ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	var sb strings.Builder
	writeKV(&sb, l.fields)
	writeKV(&sb, keysAndValues)
	l.logger.Printf("[%s] %s%s", level, msg, sb.String())
}

// writeKV appends " k=v" pairs; a trailing key without a value is dropped.
func writeKV(sb *strings.Builder, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(sb, " %v=%v", kv[i], kv[i+1])
	}
}
