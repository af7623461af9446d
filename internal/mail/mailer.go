// Package mail sends transactional e-mail over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Sender dispatches a plain-text message. Satisfied by *Mailer and by test
// fakes.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Mailer sends mail through an SMTP relay with plain auth (STARTTLS port).
type Mailer struct {
	host string
	port string
	user string
	pass string
	log  *slog.Logger
}

// NewMailer creates a Mailer for the given relay and credentials.
func NewMailer(host, port, user, pass string, logger *slog.Logger) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, log: logger.With("adapter", "mail")}
}

// Configured reports whether relay credentials are present.
func (m *Mailer) Configured() bool {
	return m.user != "" && m.pass != ""
}

// Send delivers a plain-text message to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if !m.Configured() {
		return fmt.Errorf("mail: relay credentials not configured")
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.user, to, subject, body))
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.user, []string{to}, msg); err != nil {
		m.log.ErrorContext(ctx, "mail dispatch failed", slog.String("error", err.Error()))
		return fmt.Errorf("mail: send: %w", err)
	}

	m.log.InfoContext(ctx, "mail dispatched", slog.String("subject", subject))
	return nil
}
