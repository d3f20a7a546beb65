// Package notify delivers one-time codes and admin notices over email and SMS.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/zeroclasses/coaching-service/internal/config"
)

// Email providers.
const (
	ProviderLog      = "log"
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
)

// EmailSender delivers a plain-text message to one recipient.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewEmailSender selects the sender configured by EMAIL_PROVIDER.
func NewEmailSender(cfg config.NotificationConfig, logger *zap.Logger) (EmailSender, error) {
	switch cfg.EmailProvider {
	case "", ProviderLog:
		return NewLogSender(logger), nil
	case ProviderSMTP:
		if cfg.SMTPUser == "" || cfg.SMTPPassword == "" {
			return nil, fmt.Errorf("smtp provider requires EMAIL_USER and EMAIL_PASS")
		}
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom, cfg.SMTPUser, cfg.SMTPPassword, logger), nil
	case ProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid provider requires SENDGRID_API_KEY")
		}
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.SenderName, logger), nil
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender builds a LogSender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("email simulation",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

// SMTPSender delivers through an SMTP relay.
type SMTPSender struct {
	Host   string
	Port   int
	From   string
	User   string
	Pass   string
	logger *zap.Logger
}

// NewSMTPSender builds an SMTPSender.
func NewSMTPSender(host string, port int, from, user, pass string, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, From: from, User: user, Pass: pass, logger: logger}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{ServerName: s.Host}

	if err := d.DialAndSend(m); err != nil {
		s.logger.Error("smtp send failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	s.logger.Debug("smtp send ok", zap.String("to", to))
	return nil
}

// SendGridSender delivers through the SendGrid API.
type SendGridSender struct {
	client     *sendgrid.Client
	from       string
	senderName string
	logger     *zap.Logger
}

// NewSendGridSender builds a SendGridSender.
func NewSendGridSender(apiKey, from, senderName string, logger *zap.Logger) *SendGridSender {
	return &SendGridSender{
		client:     sendgrid.NewSendClient(apiKey),
		from:       from,
		senderName: senderName,
		logger:     logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, to, subject, body string) error {
	message := sgmail.NewSingleEmail(sgmail.NewEmail(s.senderName, s.from), subject, sgmail.NewEmail("", to), body, "")
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", response.StatusCode, response.Body)
	}
	s.logger.Debug("sendgrid send ok", zap.String("to", to))
	return nil
}
