package logger

import (
	"io"
	"log/slog"
	"os"
)

const (
	envDev   = "dev"
	envLocal = "local"
	envTest  = "test"
)

type Logger struct {
	*slog.Logger
}

func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) *Logger {
	var handler slog.Handler
	switch env {
	case envDev, envLocal, envTest:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}
