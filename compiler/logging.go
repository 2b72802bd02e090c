// Package compiler implements the static checking pass of the samo compiler.
package compiler

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
	LogLevelSilent
)

// ParseLogLevel maps a level name to a LogLevel
func ParseLogLevel(name string) (LogLevel, error) {
	switch name {
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarning, nil
	case "error":
		return LogLevelError, nil
	case "silent", "off":
		return LogLevelSilent, nil
	}
	return LogLevelWarning, fmt.Errorf("unknown log level %q", name)
}

// Logger provides centralized logging for the checker
type Logger struct {
	mu         sync.Mutex
	prefix     string
	level      LogLevel
	out        io.Writer
	errorCount int
	warnCount  int
	infoCount  int
	debugCount int
}

// NewLogger creates a logger writing messages at or above level to out.
// A nil out means stderr.
func NewLogger(prefix string, level LogLevel, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{prefix: prefix, level: level, out: out}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.log(LogLevelDebug, format, args...) {
		l.count(&l.debugCount)
	}
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.log(LogLevelInfo, format, args...) {
		l.count(&l.infoCount)
	}
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	if l.log(LogLevelWarning, format, args...) {
		l.count(&l.warnCount)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.log(LogLevelError, format, args...) {
		l.count(&l.errorCount)
	}
}

// ErrorAt logs an error at a specific source location
func (l *Logger) ErrorAt(file string, line, column int, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.Error("%s:%d:%d: %s", file, line, column, message)
}

// WarningAt logs a warning at a specific source location
func (l *Logger) WarningAt(file string, line, column int, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.Warning("%s:%d:%d: %s", file, line, column, message)
}

func (l *Logger) count(counter *int) {
	l.mu.Lock()
	*counter++
	l.mu.Unlock()
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) bool {
	if level < l.level {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var levelStr string
	switch level {
	case LogLevelDebug:
		levelStr = "DEBUG"
	case LogLevelInfo:
		levelStr = "INFO"
	case LogLevelWarning:
		levelStr = "WARN"
	case LogLevelError:
		levelStr = "ERROR"
	}

	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "%s [%s] %s\n", l.prefix, levelStr, message)
	return true
}

// HasErrors returns true if any errors were logged
func (l *Logger) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errorCount > 0
}

// ErrorCount returns the number of errors logged
func (l *Logger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errorCount
}

// WarningCount returns the number of warnings logged
func (l *Logger) WarningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warnCount
}

// Reset resets all counters
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorCount = 0
	l.warnCount = 0
	l.infoCount = 0
	l.debugCount = 0
}

// PrintSummary prints a summary of logged messages
func (l *Logger) PrintSummary() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.errorCount > 0 || l.warnCount > 0 {
		fmt.Fprintf(l.out, "\n%s Check Summary:\n", l.prefix)
		if l.errorCount > 0 {
			fmt.Fprintf(l.out, "  Errors: %d\n", l.errorCount)
		}
		if l.warnCount > 0 {
			fmt.Fprintf(l.out, "  Warnings: %d\n", l.warnCount)
		}
	}
}
