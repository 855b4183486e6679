package email

import (
	"context"
	"errors"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig holds the configuration for Mailgun
type MailgunConfig struct {
	Key    string
	Domain string
	From   string
}

// MailgunSender implements Sender for Mailgun
type MailgunSender struct {
	Config *MailgunConfig
	mg     *mailgun.MailgunImpl
}

// NewMailgunSender creates a Mailgun sender.
func NewMailgunSender(c *MailgunConfig) *MailgunSender {
	return &MailgunSender{Config: c, mg: mailgun.NewMailgun(c.Domain, c.Key)}
}

// Send queues msg with Mailgun and returns the message id.
func (s *MailgunSender) Send(ctx context.Context, msg Message) (string, error) {
	message := s.mg.NewMessage(s.Config.From, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	_, id, err := s.mg.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return id, nil
}

func validateMailgunConfig(config *MailgunConfig) error {
	if config == nil || config.Key == "" || config.Domain == "" || config.From == "" {
		return errors.New("invalid Mailgun configuration")
	}
	return nil
}
