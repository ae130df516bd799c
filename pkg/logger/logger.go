package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a leveled printf logger. All output goes to one writer,
// stderr by default, so command results on stdout stay parseable.
type Logger struct {
	level   LogLevel
	verbose bool
	out     io.Writer
	mu      sync.Mutex
}

// NewLogger creates a new logger with specified level and verbose mode
func NewLogger(level string, verbose bool) *Logger {
	return NewLoggerTo(os.Stderr, level, verbose)
}

// NewLoggerTo creates a logger writing to w
func NewLoggerTo(w io.Writer, level string, verbose bool) *Logger {
	return &Logger{
		level:   ParseLogLevel(level),
		verbose: verbose,
		out:     w,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewLoggerTo(io.Discard, "error", false)
}

// Debug logs debug information (only in debug mode)
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level <= LevelDebug {
		l.log("DEBUG", fmt.Sprintf(format, args...))
	}
}

// Info logs informational messages (only in verbose mode)
func (l *Logger) Info(format string, args ...interface{}) {
	if l.verbose && l.level <= LevelInfo {
		l.log("INFO", fmt.Sprintf(format, args...))
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level <= LevelWarn {
		l.log("WARN", fmt.Sprintf(format, args...))
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level <= LevelError {
		l.log("ERROR", fmt.Sprintf(format, args...))
	}
}

// ProgressAlways logs milestones that are shown regardless of verbose mode
func (l *Logger) ProgressAlways(emoji, format string, args ...interface{}) {
	l.write(fmt.Sprintf("%s %s\n", emoji, fmt.Sprintf(format, args...)))
}

// Progress logs step-by-step details (only in verbose mode)
func (l *Logger) Progress(emoji, format string, args ...interface{}) {
	if l.verbose {
		l.write(fmt.Sprintf("%s %s\n", emoji, fmt.Sprintf(format, args...)))
	}
}

// IsVerbose reports whether verbose output is enabled
func (l *Logger) IsVerbose() bool {
	return l.verbose
}

func (l *Logger) log(level, message string) {
	l.write(fmt.Sprintf("[%s] %s\n", level, message))
}

func (l *Logger) write(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, line)
}

// ParseLogLevel converts string level to LogLevel
func ParseLogLevel(level string) LogLevel {
	switch level {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// DefaultLogger returns a default logger instance
func DefaultLogger() *Logger {
	return NewLogger("info", false)
}
