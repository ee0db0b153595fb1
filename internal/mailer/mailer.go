// Package mailer delivers transactional mail. An SMTP implementation is
// used when SMTP_HOST is configured; otherwise a log-only mailer keeps
// local development working without a mail server.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/mrlokans/attendance/internal/config"
)

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// New selects the implementation based on configuration.
func New(cfg config.Mail) Mailer {
	if cfg.SMTPHost == "" {
		log.Printf("SMTP_HOST is not set, outgoing mail will be logged instead of sent")
		return &LogMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg config.Mail
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes outgoing mail to the process log.
type LogMailer struct{}

func (m *LogMailer) Send(to, subject, body string) error {
	log.Printf("[MAIL] to=%s subject=%q\n%s", to, subject, body)
	return nil
}
