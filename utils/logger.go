package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level is the minimum severity a Logger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a LOG_LEVEL value to a Level, defaulting to info.
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

// Logger provides leveled, colourised logging throughout the application.
type Logger struct {
	out    *log.Logger
	err    *log.Logger
	level  Level
	prefix string
}

// NewLogger creates a Logger writing info, warn and debug lines to stdout and
// errors to stderr.
func NewLogger(level Level) *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr, level)
}

// NewLoggerTo creates a Logger with explicit destinations.
func NewLoggerTo(out, errOut io.Writer, level Level) *Logger {
	return &Logger{
		out:   log.New(out, "", 0),
		err:   log.New(errOut, "", 0),
		level: level,
	}
}

// With returns a child logger that tags every line with prefix, e.g. a
// request ID.
func (l *Logger) With(prefix string) *Logger {
	child := *l
	if child.prefix != "" {
		child.prefix += " "
	}
	child.prefix += "[" + prefix + "]"
	return &child
}

func (l *Logger) Info(format string, args ...any) {
	l.write(l.out, LevelInfo, "\033[32mINFO\033[0m ", format, args)
}

func (l *Logger) Warn(format string, args ...any) {
	l.write(l.out, LevelWarn, "\033[33mWARN\033[0m ", format, args)
}

func (l *Logger) Error(format string, args ...any) {
	l.write(l.err, LevelError, "\033[31mERROR\033[0m", format, args)
}

func (l *Logger) Debug(format string, args ...any) {
	l.write(l.out, LevelDebug, "\033[36mDEBUG\033[0m", format, args)
}

func (l *Logger) write(dst *log.Logger, level Level, tag, format string, args []any) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = l.prefix + " " + msg
	}
	dst.Printf("[%s] %s %s\n", time.Now().Format("2006-01-02 15:04:05"), tag, msg)
}
