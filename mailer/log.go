package mailer

import (
	"context"
	"log"
)

// LogMailer writes messages to the process log instead of delivering them.
// Used in development and tests where no SMTP relay is configured.
type LogMailer struct{}

func NewLog() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	log.Printf("mail to=%s subject=%q\n%s", to, subject, body)
	return nil
}
