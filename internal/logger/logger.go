// Package logger provides leveled logging for the certinstall CLI.
//
// The logger package outputs debug information to stderr, separate from
// the user-facing output that goes to stdout. This allows for verbose
// debugging without interfering with normal CLI output or JSON formatting.
//
// # Log Levels
//
// Four log levels are supported, in order of severity:
//   - Debug: Detailed information for debugging
//   - Info: General operational information
//   - Warn: Warning conditions that don't prevent operation
//   - Error: Error conditions that affect operation
//
// # Initialization
//
// Initialize the logger based on the --verbose flag:
//
//	logger.Init(verbose)  // verbose=true enables Debug level
//
// By default (verbose=false), only Warn and Error messages are shown.
//
// # Usage
//
//	logger.Debug("resolved %s target for %s", tgt.Class, kind)
//	logger.Info("building %d artifacts for %s", n, domain)
//	logger.Warn("chown skipped (not running as root)")
//	logger.Error("delivery to %s failed: %v", tgt.Raw, err)
//
// # Output Format
//
// Log messages are formatted as:
//
//	[LEVEL] YYYY-MM-DD HH:MM:SS message
//	[DEBUG] 2026-08-20 10:30:45 resolved ssh target for pem
//
// # Separation of Concerns
//
// The logger is for debugging output (stderr), while the output package
// is for user-facing messages (stdout with colors).
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
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

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	level  Level
	output io.Writer
	mu     sync.Mutex
}

// Global logger instance.
var std = &Logger{
	level:  LevelWarn, // Default: only warnings and errors
	output: os.Stderr,
}

// Init initializes the global logger with the specified verbosity.
// When verbose is true, Debug and Info levels are enabled.
func Init(verbose bool) {
	std.mu.Lock()
	defer std.mu.Unlock()

	if verbose {
		std.level = LevelDebug
	} else {
		std.level = LevelWarn
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetOutput sets the output destination for the global logger.
// Useful for testing. Passing nil restores the default os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	std.output = w
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

// log writes a formatted message at the specified level.
func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(l.output, "[%s] %s %s\n", level.String(), timestamp, msg)
}

// Debug logs a debug message.
// Only shown when verbose mode is enabled.
func Debug(format string, args ...interface{}) {
	std.log(LevelDebug, format, args...)
}

// Info logs an informational message.
// Only shown when verbose mode is enabled.
func Info(format string, args ...interface{}) {
	std.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
// Always shown regardless of verbose mode.
func Warn(format string, args ...interface{}) {
	std.log(LevelWarn, format, args...)
}

// Error logs an error message.
// Always shown regardless of verbose mode.
func Error(format string, args ...interface{}) {
	std.log(LevelError, format, args...)
}

// LogError logs an error with additional context message.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	std.log(LevelError, "%s: %v", msg, err)
}
