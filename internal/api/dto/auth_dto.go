package dto

import "time"

// SendOTPRequest asks for a code on the given channel.
type SendOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Type       string `json:"type"`
}

// VerifyOTPRequest checks a previously sent code.
type VerifyOTPRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	OTP        string `json:"otp" validate:"required"`
}

// VerifyOTPResponse reports a successful check.
type VerifyOTPResponse struct {
	Success           bool       `json:"success"`
	Message           string     `json:"message"`
	VerificationToken string     `json:"verificationToken,omitempty"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Name              string `json:"name" validate:"required,max=120"`
	Email             string `json:"email" validate:"required,email"`
	Phone             string `json:"phone" validate:"required"`
	Password          string `json:"password" validate:"required"`
	Role              string `json:"role"`
	VerificationToken string `json:"verificationToken"`
	OTP               string `json:"otp"`
}

// LoginRequest signs in by email or phone.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// PhoneLoginRequest signs in with a phone OTP or verification token.
type PhoneLoginRequest struct {
	Phone             string `json:"phone" validate:"required"`
	OTP               string `json:"otp"`
	VerificationToken string `json:"verificationToken"`
}

// PasswordResetRequest asks for a reset code.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest applies a new password.
type PasswordResetConfirmRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
