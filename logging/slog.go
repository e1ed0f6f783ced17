// Package logging adapts log/slog to the Logger interface consumed by the
// authfile core.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type SlogLogger struct {
	l *slog.Logger
}

// New builds a text-handler slog logger at the given level.
func New(level string) *SlogLogger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return &SlogLogger{l: slog.New(handler)}
}

// NewSlogLogger wraps an existing slog.Logger.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(format string, args ...any) {
	s.l.Debug(render(format, args...))
}

func (s *SlogLogger) Info(format string, args ...any) {
	s.l.Info(render(format, args...))
}

func (s *SlogLogger) Warn(format string, args ...any) {
	s.l.Warn(render(format, args...))
}

func (s *SlogLogger) Error(format string, args ...any) {
	s.l.Error(render(format, args...))
}

func (s *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{l: s.l.With(args...)}
}

// render expands a printf-style message before it reaches slog, which has
// no formatting of its own.
func render(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
