package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	l *slog.Logger
}

func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout, "info")
}

func NewLoggerWithWriter(w io.Writer, level string) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &Logger{l: slog.New(h)}
}

// NewNopLogger discards everything; handy in tests.
func NewNopLogger() *Logger {
	return &Logger{l: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (lg *Logger) With(kv ...any) *Logger {
	if lg == nil {
		return nil
	}
	return &Logger{l: lg.l.With(kv...)}
}

func (lg *Logger) Debug(msg string, kv ...any) {
	if lg == nil {
		return
	}
	lg.l.Debug(msg, kv...)
}

func (lg *Logger) Info(msg string, kv ...any) {
	if lg == nil {
		return
	}
	lg.l.Info(msg, kv...)
}

func (lg *Logger) Warn(msg string, kv ...any) {
	if lg == nil {
		return
	}
	lg.l.Warn(msg, kv...)
}

func (lg *Logger) Error(msg string, kv ...any) {
	if lg == nil {
		return
	}
	lg.l.Error(msg, kv...)
}
