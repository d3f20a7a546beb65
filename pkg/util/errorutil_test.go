package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"otp", fmt.Errorf("verify: %w", domain.ErrOTPInvalidOrExpired), "OTP_INVALID_OR_EXPIRED", http.StatusBadRequest},
		{"credentials", domain.ErrInvalidCredentials, "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"not registered", domain.ErrUserNotRegistered, "USER_NOT_REGISTERED", http.StatusNotFound},
		{"update missing", domain.ErrUpdateNotFound, "NOT_FOUND", http.StatusNotFound},
		{"verification", domain.ErrVerificationRequired, "VERIFICATION_REQUIRED", http.StatusForbidden},
		{"throttled", domain.ErrOTPThrottled, "TOO_MANY_REQUESTS", http.StatusTooManyRequests},
		{"unavailable", domain.ErrCollaboratorUnavailable, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
		{"fiber", fiber.NewError(http.StatusBadRequest, "invalid payload"), "BAD_REQUEST", http.StatusBadRequest},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.status, de.HTTPStatus)
		})
	}
}

func TestToDomainErrorDuplicateNamesField(t *testing.T) {
	de := ToDomainError(domain.NewDuplicateIdentity("email"))
	require.NotNil(t, de)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "email", de.Details["field"])
	assert.Equal(t, "email already in use", de.Message)
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewDomainError("X", "custom", http.StatusTeapot, nil)
	assert.Same(t, original, ToDomainError(original))
	assert.Nil(t, ToDomainError(nil))
}

func TestToDomainErrorInternalKeepsCause(t *testing.T) {
	cause := errors.New("pool closed")
	de := ToDomainError(fmt.Errorf("load user: %w", cause))
	require.NotNil(t, de)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}
