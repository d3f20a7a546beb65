package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zeroclasses/coaching-service/internal/api/dto"
	"github.com/zeroclasses/coaching-service/internal/auth"
	"github.com/zeroclasses/coaching-service/internal/service"
	apperrors "github.com/zeroclasses/coaching-service/pkg/util"
)

// PaymentsHandler exposes checkout.
type PaymentsHandler struct {
	checkout *service.CheckoutService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(checkout *service.CheckoutService) *PaymentsHandler {
	return &PaymentsHandler{checkout: checkout}
}

// Checkout handles POST /api/payments/checkout.
func (h *PaymentsHandler) Checkout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CheckoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.checkout.Checkout(c.UserContext(), service.CheckoutInput{
		UserID:        principal.User.ID,
		CourseID:      req.CourseID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		UPIID:         req.UPIID,
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{"data": dto.CheckoutResponse{
		Success:           true,
		Message:           "Payment Recorded",
		Transaction:       dto.NewTransactionResponse(res.Transaction),
		EnrolledCourseIDs: res.EnrolledCourseIDs,
	}})
}
