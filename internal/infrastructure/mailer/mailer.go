// Package mailer sends transactional and campaign mail over SMTP.
package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Attachment is a file attached to an outgoing message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is an outgoing email
type Message struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Mailer sends email messages
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

var (
	// ErrNoRecipients is returned when a message has no recipients
	ErrNoRecipients = errors.New("message has no recipients")
	// ErrMailerDisabled is returned by the noop mailer
	ErrMailerDisabled = errors.New("mailer is disabled")
)

// Config holds SMTP connection settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through a plain SMTP relay with optional auth
type SMTPMailer struct {
	config Config
	logger *zap.Logger

	// sendFunc is swapped out in tests
	sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a new SMTP-backed mailer
func NewSMTPMailer(config Config, logger *zap.Logger) *SMTPMailer {
	if config.Port == 0 {
		config.Port = 587
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{
		config:   config,
		logger:   logger,
		sendFunc: smtp.SendMail,
	}
}

// Send delivers the message through the configured relay
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if msg == nil || len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	raw := buildMIMEMessage(m.config.From, msg)

	if err := m.sendFunc(addr, auth, envelopeAddress(m.config.From), msg.To, raw); err != nil {
		m.logger.Error("Failed to send mail",
			zap.String("subject", msg.Subject),
			zap.Int("recipients", len(msg.To)),
			zap.Error(err),
		)
		return fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Info("Mail sent",
		zap.String("subject", msg.Subject),
		zap.Int("recipients", len(msg.To)),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

// envelopeAddress extracts the bare address from "Name <addr>" senders
func envelopeAddress(from string) string {
	start := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if start >= 0 && end > start {
		return from[start+1 : end]
	}
	return from
}

const mimeBoundary = "square15-mail-boundary"

// buildMIMEMessage assembles the raw RFC 5322 message with an HTML body
// and base64-encoded attachments
func buildMIMEMessage(from string, msg *Message) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
		buf.WriteString("\r\n")
		buf.WriteString(msg.HTMLBody)
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n", mimeBoundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(msg.HTMLBody)
	buf.WriteString("\r\n")

	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
		fmt.Fprintf(&buf, "Content-Type: %s\r\n", contentType)
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n", att.Filename)
		buf.WriteString("\r\n")

		encoded := base64.StdEncoding.EncodeToString(att.Data)
		// Wrap base64 at 76 characters per RFC 2045
		for len(encoded) > 76 {
			buf.WriteString(encoded[:76])
			buf.WriteString("\r\n")
			encoded = encoded[76:]
		}
		buf.WriteString(encoded)
		buf.WriteString("\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", mimeBoundary)
	return buf.Bytes()
}

// NoopMailer discards all mail. Used when mail is disabled in config.
type NoopMailer struct {
	logger *zap.Logger
}

// NewNoopMailer creates a mailer that logs and discards messages
func NewNoopMailer(logger *zap.Logger) *NoopMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopMailer{logger: logger}
}

// Send logs the message and drops it
func (m *NoopMailer) Send(ctx context.Context, msg *Message) error {
	if msg == nil || len(msg.To) == 0 {
		return ErrNoRecipients
	}
	m.logger.Info("Mail disabled, dropping message",
		zap.String("subject", msg.Subject),
		zap.Int("recipients", len(msg.To)),
	)
	return nil
}

var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = (*NoopMailer)(nil)
)
