package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeroclasses/coaching-service/internal/config"
)

func TestLogSenderWritesMessage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sender := NewLogSender(zap.New(core))

	require.NoError(t, sender.Send(context.Background(), "a@test.com", "Zero Classes Verification Code", "Your OTP is: 123456"))

	entries := logs.FilterMessage("email simulation").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "a@test.com", fields["to"])
	assert.Equal(t, "Your OTP is: 123456", fields["body"])
}

func TestLogSMSWritesMessage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sender := NewLogSMS(zap.New(core))

	require.NoError(t, sender.SendSMS(context.Background(), "+919876543210", "Your OTP is: 123456"))
	require.Equal(t, 1, logs.FilterMessage("sms simulation").Len())
}

func TestNewEmailSenderSelection(t *testing.T) {
	logger := zap.NewNop()

	s, err := NewEmailSender(config.NotificationConfig{EmailProvider: "log"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	_, err = NewEmailSender(config.NotificationConfig{EmailProvider: "smtp"}, logger)
	assert.Error(t, err)

	s, err = NewEmailSender(config.NotificationConfig{EmailProvider: "smtp", SMTPUser: "u", SMTPPassword: "p"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	s, err = NewEmailSender(config.NotificationConfig{EmailProvider: "sendgrid", SendGridAPIKey: "key"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SendGridSender{}, s)

	_, err = NewEmailSender(config.NotificationConfig{EmailProvider: "pigeon"}, logger)
	assert.Error(t, err)
}

func TestNewSMSSenderFallsBackToLog(t *testing.T) {
	assert.IsType(t, &LogSMS{}, NewSMSSender(config.NotificationConfig{}, zap.NewNop()))
	assert.IsType(t, &TwilioSMS{}, NewSMSSender(config.NotificationConfig{TwilioSID: "AC1", TwilioToken: "t", TwilioFrom: "+1"}, zap.NewNop()))
}
