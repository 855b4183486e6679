// Package email sends plain notification emails through SMTP, SendGrid or Mailgun.
package email

import (
	"context"
	"errors"
	"fmt"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender is a generic interface for sending emails
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Config holds the configuration of the selected provider.
type Config struct {
	Provider string
	SMTP     *SMTPConfig
	SendGrid *SendGridConfig
	Mailgun  *MailgunConfig
}

// ErrNoProvider is returned when no provider is configured.
var ErrNoProvider = errors.New("no email provider configured")

// NewSender returns the Sender for c.Provider.
func NewSender(c *Config) (Sender, error) {
	if c == nil || c.Provider == "" {
		return nil, ErrNoProvider
	}
	switch c.Provider {
	case "smtp":
		if err := validateSMTPConfig(c.SMTP); err != nil {
			return nil, err
		}
		return &SMTPSender{Config: c.SMTP}, nil
	case "sendgrid":
		if err := validateSendGridConfig(c.SendGrid); err != nil {
			return nil, err
		}
		return NewSendGridSender(c.SendGrid), nil
	case "mailgun":
		if err := validateMailgunConfig(c.Mailgun); err != nil {
			return nil, err
		}
		return NewMailgunSender(c.Mailgun), nil
	default:
		return nil, fmt.Errorf("unsupported email provider %q", c.Provider)
	}
}
