package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{
			name:   "printf style",
			format: "failed after %d attempts: %v",
			args:   []any{3, "timeout"},
			want:   "failed after 3 attempts: timeout",
		},
		{
			name:   "bare message",
			format: "shutting down",
			want:   "shutting down",
		},
		{
			name:   "string verbs",
			format: "login lookup failed for identifier %s",
			args:   []any{"user@example.com"},
			want:   "login lookup failed for identifier user@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(tt.format, tt.args...); got != tt.want {
				t.Fatalf("render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlogLoggerWritesThrough(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	logger.Info("request handled in %dms", 42)

	if !strings.Contains(buf.String(), "request handled in 42ms") {
		t.Fatalf("expected rendered message in output, got %q", buf.String())
	}
}

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		if logger := New(level); logger == nil {
			t.Fatalf("New(%q) returned nil", level)
		}
	}
}
