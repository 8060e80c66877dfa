package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer sends a single notification email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds outbound mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// SMTPMailer delivers mail over plain SMTP
type SMTPMailer struct {
	config *SMTPConfig
	logger *slog.Logger
}

func NewSMTPMailer(config *SMTPConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{config: config, logger: logger}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", m.config.From)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(body)

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(sb.String())); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}

	m.logger.Debug("Mail sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// LogMailer is used when outbound mail is disabled: notifications are only
// written to the log, which keeps local development broker-complete without
// an SMTP relay.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("Mail suppressed (mail disabled)",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
