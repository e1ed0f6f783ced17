// Package mailer provides the email transports used by the verification and
// reset flows. Delivery is fire-and-forget from the flows' perspective:
// failures are reported to the caller for logging, never retried here.
package mailer

import (
	"context"

	"github.com/wneessen/go-mail"
)

// SMTPMailer delivers messages through a configured SMTP relay.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTP constructs a mailer; no connection is made until Send.
func NewSMTP(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{
		host: host,
		port: port,
		user: user,
		pass: pass,
		from: from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.pass),
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return err
	}

	return client.DialAndSendWithContext(ctx, msg)
}
