package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/zeroclasses/coaching-service/internal/config"
)

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// NewSMSSender returns Twilio when fully configured and the log simulation otherwise.
func NewSMSSender(cfg config.NotificationConfig, logger *zap.Logger) SMSSender {
	if cfg.TwilioSID == "" || cfg.TwilioToken == "" || cfg.TwilioFrom == "" {
		return NewLogSMS(logger)
	}
	return NewTwilioSMS(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)
}

// LogSMS prints the message to the operator log.
type LogSMS struct {
	logger *zap.Logger
}

// NewLogSMS builds a LogSMS.
func NewLogSMS(logger *zap.Logger) *LogSMS {
	return &LogSMS{logger: logger}
}

func (s *LogSMS) SendSMS(_ context.Context, to, message string) error {
	s.logger.Info("sms simulation", zap.String("to", to), zap.String("message", message))
	return nil
}

// TwilioSMS sends through the Twilio REST API.
type TwilioSMS struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioSMS builds a TwilioSMS.
func NewTwilioSMS(accountSID, authToken, fromNumber string) *TwilioSMS {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSMS{client: client, fromNumber: fromNumber}
}

func (t *TwilioSMS) SendSMS(_ context.Context, to, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	return nil
}
