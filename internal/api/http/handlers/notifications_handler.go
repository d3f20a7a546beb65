package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zeroclasses/coaching-service/internal/api/dto"
	"github.com/zeroclasses/coaching-service/internal/service"
	apperrors "github.com/zeroclasses/coaching-service/pkg/util"
)

// NotificationsHandler exposes admin broadcasts.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// Send handles POST /api/notifications.
func (h *NotificationsHandler) Send(c *fiber.Ctx) error {
	var req dto.NotificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.notifications.Broadcast(c.UserContext(), req.Subject, req.Message); err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": dto.MessageResponse{Message: "Notification sent"}})
}
