package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	globalLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	output       io.Closer
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string onto a LogLevel, defaulting to info.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l LogLevel) String() string {
	return l.slogLevel().String()
}

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	OutputPath string
	Format     string // "json" or "text"
}

// Init initializes the structured logger
func Init() error {
	return InitWithConfig(Config{
		Level:      LevelInfo,
		OutputPath: "stdout",
		Format:     "json",
	})
}

// InitWithConfig initializes logger with custom config
func InitWithConfig(config Config) error {
	var w io.Writer = os.Stdout
	if config.OutputPath != "" && config.OutputPath != "stdout" {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		w = f
		output = f
	}

	globalLogger = slog.New(newHandler(w, config))
	slog.SetDefault(globalLogger)
	return nil
}

func newHandler(w io.Writer, config Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: true,
	}
	if config.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Close releases the log file, if one was opened.
func Close() error {
	if output == nil {
		return nil
	}
	err := output.Close()
	output = nil
	return err
}

// ForUser scopes the logger to a Telegram user.
func ForUser(telegramID int64) *slog.Logger {
	return globalLogger.With("telegram_id", telegramID)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	globalLogger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	globalLogger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	globalLogger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	globalLogger.Error(msg, args...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...any) {
	globalLogger.Error(msg, args...)
	os.Exit(1)
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	return globalLogger
}
