package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the logging interface used throughout the application.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	SetLevel(level slog.Level)
	GetLevel() slog.Level
}

// SlogLogger wraps slog.Logger to implement Logger.
type SlogLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

func New() *SlogLogger {
	return NewWithLevel(slog.LevelInfo)
}

func NewWithLevel(level slog.Level) *SlogLogger {
	return NewWithWriter(os.Stdout, level)
}

func NewWithWriter(w io.Writer, level slog.Level) *SlogLogger {
	levelVar := &slog.LevelVar{}
	levelVar.Set(level)
	return &SlogLogger{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar})),
		level:  levelVar,
	}
}

// Nop discards everything. Used by tests.
func Nop() *SlogLogger {
	return NewWithWriter(io.Discard, slog.LevelError+4)
}

// ParseLevel converts debug|info|warn|error (case-insensitive) to a slog.Level.
// Unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SlogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *SlogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *SlogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *SlogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *SlogLogger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

func (l *SlogLogger) GetLevel() slog.Level {
	return l.level.Level()
}
