package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zeroclasses/coaching-service/internal/config"
	"github.com/zeroclasses/coaching-service/internal/domain"
	"github.com/zeroclasses/coaching-service/internal/events"
	"github.com/zeroclasses/coaching-service/internal/notify"
	apperrors "github.com/zeroclasses/coaching-service/pkg/util"
)

// NotificationService sends admin notices and reacts to domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	email      notify.EmailSender
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, email notify.EmailSender, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		email:      email,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPaymentRecorded, n.handlePaymentRecorded)
	n.dispatcher.Subscribe(events.EventEnrollmentConfirmed, n.handleEnrollmentConfirmed)
}

// Broadcast emails subject and message to the admin inbox.
func (n *NotificationService) Broadcast(ctx context.Context, subject, message string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" || strings.TrimSpace(message) == "" {
		return apperrors.NewValidationError("subject and message are required", nil)
	}
	if strings.TrimSpace(n.cfg.AdminInbox) == "" {
		return fmt.Errorf("%w: no admin inbox configured", domain.ErrCollaboratorUnavailable)
	}
	if err := n.email.Send(ctx, n.cfg.AdminInbox, subject, message); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCollaboratorUnavailable, err)
	}
	n.logger.Info("notification sent", zap.String("to", n.cfg.AdminInbox), zap.String("subject", subject))
	return nil
}

func (n *NotificationService) handlePaymentRecorded(_ context.Context, event events.Event) error {
	n.logger.Info("PaymentRecorded",
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.String("course_id", event.CourseID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleEnrollmentConfirmed(_ context.Context, event events.Event) error {
	n.logger.Info("EnrollmentConfirmed",
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.String("course_id", event.CourseID))
	return nil
}
