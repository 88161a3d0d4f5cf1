// Package notify delivers transactional mail. Without SMTP configuration
// messages are logged instead of sent, so development setups work without a
// mail server.
package notify

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// SMTPConfig captures the mail transport settings. An empty Host switches
// the mailer into log-only mode.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer sends mail over SMTP with STARTTLS-capable auth.
type SMTPMailer struct {
	cfg SMTPConfig
	log zerolog.Logger
}

func NewSMTPMailer(cfg SMTPConfig, log zerolog.Logger) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPMailer{cfg: cfg, log: log}
}

// Send delivers a plain-text message. In log-only mode the message body is
// written to the log at info level and no error is returned.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.cfg.Host == "" {
		m.log.Info().
			Str("to", to).
			Str("subject", subject).
			Str("body", body).
			Msg("smtp not configured, mail logged")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.cfg.From, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
