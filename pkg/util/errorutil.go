package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return internalError(err)
}

func internalError(err error) *DomainError {
	return wrap("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError, err)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var dup *domain.DuplicateIdentityError
	if errors.As(err, &dup) {
		return &DomainError{
			Code:       "DUPLICATE_IDENTITY",
			Message:    dup.Error(),
			HTTPStatus: http.StatusConflict,
			Details:    map[string]any{"field": dup.Field},
			Err:        err,
		}
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{Code: codeForStatus(fiberErr.Code), Message: fiberErr.Message, HTTPStatus: fiberErr.Code}
	}

	switch {
	case errors.Is(err, domain.ErrOTPInvalidOrExpired):
		return wrap("OTP_INVALID_OR_EXPIRED", "Invalid or Expired OTP", http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return wrap("INVALID_CREDENTIALS", "Invalid credentials", http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrUserNotRegistered):
		return wrap("USER_NOT_REGISTERED", "User not registered", http.StatusNotFound, err)
	case errors.Is(err, domain.ErrUpdateNotFound), errors.Is(err, domain.ErrUserNotFound):
		return wrap("NOT_FOUND", "resource not found", http.StatusNotFound, err)
	case errors.Is(err, domain.ErrCourseNotFound):
		return wrap("NOT_FOUND", "course not found", http.StatusNotFound, err)
	case errors.Is(err, domain.ErrVerificationRequired):
		return wrap("VERIFICATION_REQUIRED", "phone verification required", http.StatusForbidden, err)
	case errors.Is(err, domain.ErrForbidden):
		return wrap("FORBIDDEN", "insufficient role", http.StatusForbidden, err)
	case errors.Is(err, domain.ErrOTPThrottled):
		return wrap("TOO_MANY_REQUESTS", "Too many OTP requests. Please try again later.", http.StatusTooManyRequests, err)
	case errors.Is(err, domain.ErrPaymentDeclined):
		return wrap("PAYMENT_FAILED", "Payment failed. Please try again.", http.StatusPaymentRequired, err)
	case errors.Is(err, domain.ErrCollaboratorUnavailable):
		return wrap("SERVICE_UNAVAILABLE", "dependency unavailable", http.StatusServiceUnavailable, err)
	}

	return internalError(err)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}

func wrap(code, message string, status int, err error) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "REQUEST_FAILED"
	}
}
