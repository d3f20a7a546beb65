package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zeroclasses/coaching-service/internal/domain"
	"github.com/zeroclasses/coaching-service/internal/events"
	"github.com/zeroclasses/coaching-service/internal/observability"
	"github.com/zeroclasses/coaching-service/internal/payment"
	"github.com/zeroclasses/coaching-service/internal/repository"
	apperrors "github.com/zeroclasses/coaching-service/pkg/util"
)

// EnrollmentService records which courses a user has unlocked.
type EnrollmentService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewEnrollmentService builds the service.
func NewEnrollmentService(users repository.UserRepository, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{users: users, dispatcher: dispatcher, metrics: metrics, logger: logger}
}

// Confirm adds courseID to the user's enrollment set and returns the full set.
// Confirming an existing enrollment is a no-op that still succeeds.
func (s *EnrollmentService) Confirm(ctx context.Context, userID, courseID string) ([]string, error) {
	user, err := s.users.AppendEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordEnrollment()

	if s.dispatcher != nil {
		event := events.New(events.EventEnrollmentConfirmed, userID, courseID, events.EnrollmentConfirmedPayload{
			EnrolledCourseIDs: user.EnrolledCourseIDs,
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("enrollment event handlers failed", zap.Error(err))
		}
	}
	return user.EnrolledCourseIDs, nil
}

// CheckoutService charges for a course and enrolls the payer on success.
type CheckoutService struct {
	courses     repository.CourseRepository
	gateway     payment.Gateway
	enrollments *EnrollmentService
	logger      *zap.Logger
}

// NewCheckoutService builds the service.
func NewCheckoutService(courses repository.CourseRepository, gateway payment.Gateway, enrollments *EnrollmentService, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{courses: courses, gateway: gateway, enrollments: enrollments, logger: logger}
}

// CheckoutInput describes a checkout request.
type CheckoutInput struct {
	UserID        string
	CourseID      string
	Amount        float64
	Currency      string
	PaymentMethod string
	UPIID         string
}

// CheckoutResult is the recorded transaction and the caller's enrollment set.
type CheckoutResult struct {
	Transaction       *domain.Transaction
	EnrolledCourseIDs []string
}

// Checkout records the payment and then the enrollment. The amount is taken
// as submitted; it is not compared with the course price.
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	courseID := strings.TrimSpace(input.CourseID)
	if courseID == "" {
		return nil, apperrors.NewValidationError("courseId is required", nil)
	}
	method, err := domain.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"paymentMethod": input.PaymentMethod})
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	txn, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		UserID:        input.UserID,
		CourseID:      courseID,
		Amount:        input.Amount,
		Currency:      input.Currency,
		PaymentMethod: method,
		UPIID:         input.UPIID,
	})
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollments.Confirm(ctx, input.UserID, courseID)
	if err != nil {
		s.logger.Error("payment recorded without enrollment",
			zap.String("transaction_id", txn.Reference),
			zap.String("user_id", input.UserID),
			zap.Error(err))
		return nil, fmt.Errorf("confirm enrollment after %s: %w", txn.Reference, err)
	}
	return &CheckoutResult{Transaction: txn, EnrolledCourseIDs: enrolled}, nil
}
