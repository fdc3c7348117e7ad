// Package logging provides slog setup helpers shared by the daemon and CLI.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/jmylchreest/vesyncd/internal/config"
)

// LogLevel defines log level types
type LogLevel string

// Log level constants - using values from config package
const (
	LogLevelDebug LogLevel = LogLevel(config.LogLevelDebug)
	LogLevelInfo  LogLevel = LogLevel(config.LogLevelInfo)
	LogLevelWarn  LogLevel = LogLevel(config.LogLevelWarn)
	LogLevelError LogLevel = LogLevel(config.LogLevelError)
)

// LogFormat defines log format types
type LogFormat string

// Log format constants - using values from config package
const (
	LogFormatText LogFormat = LogFormat(config.LogFormatText)
	LogFormatJSON LogFormat = LogFormat(config.LogFormatJSON)
)

// levelVar backs every logger built here so the daemon can change the level
// at runtime (config hot-reload).
var levelVar = new(slog.LevelVar)

// GetLogLevel converts a string log level to slog.Level
func GetLogLevel(level string) slog.Level {
	switch level {
	case string(LogLevelDebug):
		return slog.LevelDebug
	case string(LogLevelWarn):
		return slog.LevelWarn
	case string(LogLevelError):
		return slog.LevelError
	case string(LogLevelInfo):
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// ValidateLogLevel ensures the provided level is valid, returning a default if not
func ValidateLogLevel(level string) string {
	switch level {
	case string(LogLevelDebug), string(LogLevelInfo), string(LogLevelWarn), string(LogLevelError):
		return level
	default:
		return string(LogLevelInfo)
	}
}

// ValidateLogFormat ensures the provided format is valid, returning a default if not
func ValidateLogFormat(format string) string {
	switch format {
	case string(LogFormatText), string(LogFormatJSON):
		return format
	default:
		return string(LogFormatText)
	}
}

// SetupLogger creates a logger writing to stderr in the requested format.
// The level can be changed later with SetLevel.
func SetupLogger(level string, format string) *slog.Logger {
	return newLogger(level, format, os.Stderr)
}

// SetupLoggerWithOutput is SetupLogger with an explicit output, for tests.
func SetupLoggerWithOutput(level, format string, out io.Writer) *slog.Logger {
	return newLogger(level, format, out)
}

func newLogger(level, format string, out io.Writer) *slog.Logger {
	levelVar.Set(GetLogLevel(ValidateLogLevel(level)))
	opts := &slog.HandlerOptions{Level: levelVar}

	var handler slog.Handler
	if ValidateLogFormat(format) == string(LogFormatJSON) {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// SetLevel changes the level of every logger built by this package.
func SetLevel(level string) {
	levelVar.Set(GetLogLevel(ValidateLogLevel(level)))
}

// SetupErrorLogger creates a simple text logger for reporting errors during startup.
func SetupErrorLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// SetAsDefaultLogger sets a logger as the default logger
func SetAsDefaultLogger(logger *slog.Logger) {
	slog.SetDefault(logger)
}
