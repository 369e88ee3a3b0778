package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LogLevel represents the verbosity level of logging
type LogLevel int

const (
	ErrorLevel LogLevel = iota
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

// String returns a string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case ErrorLevel:
		return "ERROR"
	case WarningLevel:
		return "WARNING"
	case InfoLevel:
		return "INFO"
	case DebugLevel:
		return "DEBUG"
	case TraceLevel:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Logger represents a logging utility
type Logger struct {
	Level    LogLevel
	Output   io.Writer
	ShowTime bool
	Prefix   string

	closer io.Closer // log file owned by the logger, nil otherwise
}

// NewLogger creates a new logger with the specified verbosity level.
// It writes to stderr so log lines never mix with the console transcript.
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		Level:    level,
		Output:   os.Stderr,
		ShowTime: true,
	}
}

// NewFileLogger creates a new logger that appends to a file
func NewFileLogger(level LogLevel, filename string) (*Logger, error) {
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		Level:    level,
		Output:   file,
		ShowTime: true,
		closer:   file,
	}, nil
}

// Close closes the log file opened by NewFileLogger. It is a no-op for other loggers
// and for repeated calls.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	l.Output = io.Discard
	return err
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.Output = w
}

// SetPrefix sets a prefix for all log messages
func (l *Logger) SetPrefix(prefix string) {
	l.Prefix = prefix
}

// log logs a message at the specified level
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level > l.Level {
		return
	}

	var builder strings.Builder

	// Add timestamp if enabled
	if l.ShowTime {
		builder.WriteString(time.Now().Format("15:04:05.000 "))
	}

	// Add level indicator
	builder.WriteString(fmt.Sprintf("[%s] ", level.String()))

	// Add prefix if set
	if l.Prefix != "" {
		builder.WriteString(fmt.Sprintf("%s: ", l.Prefix))
	}

	// Add the main message
	builder.WriteString(fmt.Sprintf(format, args...))
	builder.WriteString("\n")

	fmt.Fprint(l.Output, builder.String())
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(WarningLevel, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Trace logs a trace message (highest verbosity)
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(TraceLevel, format, args...)
}

// Gate logs information about gate mutations
func (l *Logger) Gate(format string, args ...interface{}) {
	l.log(DebugLevel, "GATE: "+format, args...)
}

// Registry logs information about registry changes
func (l *Logger) Registry(format string, args ...interface{}) {
	l.log(DebugLevel, "REGISTRY: "+format, args...)
}

// Console logs information about menu commands
func (l *Logger) Console(format string, args ...interface{}) {
	l.log(TraceLevel, "CONSOLE: "+format, args...)
}

// ParseLogLevel converts a level name such as "info" or "DEBUG" to a LogLevel
func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ERROR":
		return ErrorLevel, nil
	case "WARNING", "WARN":
		return WarningLevel, nil
	case "INFO", "":
		return InfoLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "TRACE":
		return TraceLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %s", name)
	}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() *Logger {
	return &Logger{Level: ErrorLevel, Output: io.Discard}
}

// DefaultLogger is the default logger instance
var DefaultLogger = NewLogger(InfoLevel)
