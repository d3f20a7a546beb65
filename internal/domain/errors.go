package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateIdentity       = errors.New("identity already registered")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrOTPInvalidOrExpired     = errors.New("invalid or expired otp")
	ErrUserNotRegistered       = errors.New("user not registered")
	ErrUpdateNotFound          = errors.New("update target not found")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrVerificationRequired    = errors.New("phone verification required")
	ErrOTPThrottled            = errors.New("too many otp requests")
	ErrUserNotFound            = errors.New("user not found")
	ErrCourseNotFound          = errors.New("course not found")
	ErrForbidden               = errors.New("forbidden")
	ErrPaymentDeclined         = errors.New("payment declined")
)

// DuplicateIdentityError names the unique field that collided.
type DuplicateIdentityError struct {
	Field string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

func (e *DuplicateIdentityError) Unwrap() error {
	return ErrDuplicateIdentity
}

// NewDuplicateIdentity builds a field-specific duplicate error.
func NewDuplicateIdentity(field string) error {
	return &DuplicateIdentityError{Field: field}
}
