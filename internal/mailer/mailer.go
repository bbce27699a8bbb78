// Package mailer delivers the digest email over authenticated SMTP.
package mailer

import (
	"context"

	"cryptodigest/internal/domain"

	"github.com/wneessen/go-mail"
)

type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string

	// dialAndSend is swapped out in tests.
	dialAndSend func(ctx context.Context, m *Mailer, msg *mail.Msg) error
}

func New(host string, port int, username, password, from, to string) *Mailer {
	return &Mailer{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		from:        from,
		to:          to,
		dialAndSend: smtpDialAndSend,
	}
}

// Send delivers one plain-text message to the fixed recipient. One session
// per send; the pipeline sends a single email per run.
func (m *Mailer) Send(ctx context.Context, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return domain.MailError("send digest", err)
	}
	if err := msg.To(m.to); err != nil {
		return domain.MailError("send digest", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.dialAndSend(ctx, m, msg); err != nil {
		return domain.MailError("send digest", err)
	}
	return nil
}

func smtpDialAndSend(ctx context.Context, m *Mailer, msg *mail.Msg) error {
	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
