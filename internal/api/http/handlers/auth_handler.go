package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zeroclasses/coaching-service/internal/api/dto"
	"github.com/zeroclasses/coaching-service/internal/auth"
	"github.com/zeroclasses/coaching-service/internal/service"
	apperrors "github.com/zeroclasses/coaching-service/pkg/util"
)

// AuthHandler exposes OTP, registration and login endpoints.
type AuthHandler struct {
	verification *service.VerificationService
	users        *service.UserService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(verification *service.VerificationService, users *service.UserService) *AuthHandler {
	return &AuthHandler{verification: verification, users: users}
}

// SendOTP handles POST /api/auth/send-otp.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.verification.SendOTP(c.UserContext(), req.Identifier, req.Type)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.MessageResponse{Message: res.Message}})
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.verification.VerifyOTP(c.UserContext(), req.Identifier, req.OTP)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := dto.VerifyOTPResponse{Success: true, Message: "Verified", VerificationToken: res.VerificationToken}
	if res.VerificationToken != "" {
		out.ExpiresAt = &res.ExpiresAt
	}
	return c.JSON(fiber.Map{"data": out})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.verification.Register(c.UserContext(), service.RegisterInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Password:          req.Password,
		Role:              req.Role,
		VerificationToken: req.VerificationToken,
		OTP:               req.OTP,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(authPayload(res))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.verification.Login(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(authPayload(res))
}

// LoginWithPhone handles POST /api/auth/login-via-phone.
func (h *AuthHandler) LoginWithPhone(c *fiber.Ctx) error {
	var req dto.PhoneLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.verification.LoginWithPhone(c.UserContext(), req.Phone, req.OTP, req.VerificationToken)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(authPayload(res))
}

// RequestPasswordReset handles POST /api/auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.verification.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": dto.MessageResponse{Message: "If the email is registered, a reset code has been sent"}})
}

// ConfirmPasswordReset handles POST /api/auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.verification.ConfirmPasswordReset(c.UserContext(), req.Email, req.OTP, req.NewPassword); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.MessageResponse{Message: "Password updated"}})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.users.Me(c.UserContext(), principal.User.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

func authPayload(res *service.AuthResult) fiber.Map {
	return fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(res.User),
			"auth": dto.AuthResponse{Token: res.Token, ExpiresAt: res.ExpiresAt},
		},
	}
}
