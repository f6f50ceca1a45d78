// Package mailer delivers transactional account emails (verification links,
// password reset links) over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-reg-assist/internal/config"
	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"gopkg.in/gomail.v2"
)

// ErrDeliveryFailed is returned when an email cannot be handed off to the
// SMTP server. Callers treat it as a degraded-success condition: account
// state changes are never rolled back because a message did not go out.
var ErrDeliveryFailed = errors.New("email delivery failed")

// Attachment is a file attached to an outbound message. A non-empty InlineID
// embeds the attachment for referencing from the HTML body (cid:<InlineID>).
type Attachment struct {
	Filename string
	Content  []byte
	MIMEType string
	InlineID string
}

// Message is a single outbound email.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer sends transactional emails.
type Mailer interface {
	Send(ctx context.Context, message Message) error
}

// smtpMailer is the gomail-backed [Mailer] implementation. A fresh dial is
// made per message; account email volume does not justify a held connection.
type smtpMailer struct {
	cfg    config.Mail
	logger *logger.Logger
}

// NewSMTPMailer constructs a [Mailer] that delivers through the configured
// SMTP relay.
func NewSMTPMailer(cfg config.Mail, log *logger.Logger) Mailer {
	return &smtpMailer{cfg: cfg, logger: log}
}

// Send delivers the message through SMTP. Transport and handshake failures
// are wrapped in [ErrDeliveryFailed].
func (s *smtpMailer) Send(ctx context.Context, message Message) error {
	log := logger.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", message.To)
	m.SetHeader("Subject", message.Subject)
	m.SetBody("text/html", message.HTML)

	for _, attachment := range message.Attachments {
		content := attachment.Content
		copyFunc := gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		})
		headers := gomail.SetHeader(map[string][]string{
			"Content-Type": {attachment.MIMEType},
		})

		if attachment.InlineID != "" {
			m.Embed(attachment.InlineID, copyFunc, headers)
			continue
		}
		m.Attach(attachment.Filename, copyFunc, headers)
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		log.Err(err).
			Str("func", "smtpMailer.Send").
			Str("to", message.To).
			Str("subject", message.Subject).
			Msg("failed to deliver email")
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	log.Info().
		Str("func", "smtpMailer.Send").
		Str("to", message.To).
		Str("subject", message.Subject).
		Msg("email delivered")

	return nil
}

// nopMailer discards every message. Used when SMTP is not configured and in
// tests.
type nopMailer struct{}

// NewNopMailer constructs a [Mailer] that silently drops all messages.
func NewNopMailer() Mailer {
	return nopMailer{}
}

func (nopMailer) Send(context.Context, Message) error { return nil }
