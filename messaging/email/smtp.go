package email

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// SMTPConfig holds the configuration for SMTP sending
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender implements Sender over net/smtp
type SMTPSender struct {
	Config *SMTPConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// Send delivers msg. net/smtp has no context support, so ctx is only checked up front.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	send := s.send
	if send == nil {
		send = smtp.SendMail
	}
	var auth smtp.Auth
	if s.Config.Username != "" {
		auth = smtp.PlainAuth("", s.Config.Username, s.Config.Password, s.Config.Host)
	}
	addr := net.JoinHostPort(s.Config.Host, strconv.Itoa(s.Config.Port))
	if err := send(addr, auth, s.Config.From, []string{msg.To}, buildMIME(s.Config.From, msg)); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return "", nil
}

func buildMIME(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + sanitizeHeader(msg.To) + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Text)
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil || config.Host == "" || config.Port == 0 || config.From == "" {
		return errors.New("invalid SMTP configuration")
	}
	return nil
}
