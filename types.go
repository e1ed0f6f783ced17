package authfile

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// RevocationRegistry tracks which refresh-token fingerprints are still
// honored. Entries expire server-side in lockstep with the token they mirror.
type RevocationRegistry interface {
	Record(ctx context.Context, subjectID, fingerprint string, ttl time.Duration) error
	Verify(ctx context.Context, subjectID, fingerprint string) (bool, error)
	Delete(ctx context.Context, subjectID, fingerprint string) error
	DeleteAll(ctx context.Context, subjectID string) error
}

// Mailer delivers templated messages. Implementations are fire-and-forget
// from the flows' point of view: a delivery failure is logged and never rolls
// back the token that was minted for the message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
