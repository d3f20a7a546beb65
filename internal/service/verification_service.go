package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeroclasses/coaching-service/internal/auth"
	"github.com/zeroclasses/coaching-service/internal/domain"
	"github.com/zeroclasses/coaching-service/internal/notify"
	"github.com/zeroclasses/coaching-service/internal/observability"
	"github.com/zeroclasses/coaching-service/internal/otp"
	"github.com/zeroclasses/coaching-service/internal/rate"
	"github.com/zeroclasses/coaching-service/internal/repository"
	apperrors "github.com/zeroclasses/coaching-service/pkg/util"
)

// OTP delivery channels.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

const (
	otpSubject   = "Zero Classes Verification Code"
	resetSubject = "Zero Classes Password Reset"
	resetPrefix  = "reset:"
	tokenPrefix  = "vt:"
)

// VerificationService runs OTP issuance, verification gated registration and login.
type VerificationService struct {
	users            repository.UserRepository
	ledger           otp.Ledger
	limiter          rate.Limiter
	email            notify.EmailSender
	sms              notify.SMSSender
	tokens           *auth.TokenManager
	passwords        auth.PasswordChecker
	metrics          *observability.Metrics
	logger           *zap.Logger
	allowAdminSignup bool
}

// VerificationDependencies bundles collaborators for the verification flow.
type VerificationDependencies struct {
	Users            repository.UserRepository
	Ledger           otp.Ledger
	Limiter          rate.Limiter
	Email            notify.EmailSender
	SMS              notify.SMSSender
	Tokens           *auth.TokenManager
	Passwords        auth.PasswordChecker
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	AllowAdminSignup bool
}

// NewVerificationService builds the service.
func NewVerificationService(deps VerificationDependencies) *VerificationService {
	s := &VerificationService{
		users:            deps.Users,
		ledger:           deps.Ledger,
		limiter:          deps.Limiter,
		email:            deps.Email,
		sms:              deps.SMS,
		tokens:           deps.Tokens,
		passwords:        deps.Passwords,
		metrics:          deps.Metrics,
		logger:           deps.Logger,
		allowAdminSignup: deps.AllowAdminSignup,
	}
	if s.limiter == nil {
		s.limiter = rate.Unlimited{}
	}
	if s.passwords == nil {
		s.passwords = auth.PlainChecker{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// SendResult describes where a code was delivered.
type SendResult struct {
	Identifier string
	Channel    string
	Message    string
}

// VerifyResult is returned after a successful OTP check. VerificationToken is
// only set for phone identifiers.
type VerifyResult struct {
	Identifier        string
	VerificationToken string
	ExpiresAt         time.Time
}

// AuthResult carries the authenticated user and its access token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// RegisterInput describes a registration request. Either VerificationToken or
// OTP must prove control of Phone.
type RegisterInput struct {
	Name              string
	Email             string
	Phone             string
	Password          string
	Role              string
	VerificationToken string
	OTP               string
}

// SendOTP issues a code for identifier and delivers it over channel. An empty
// channel is inferred from the identifier's shape.
func (s *VerificationService) SendOTP(ctx context.Context, identifier, channel string) (*SendResult, error) {
	channel, key, err := resolveChannel(identifier, channel)
	if err != nil {
		return nil, err
	}

	if err := s.throttle(ctx, key); err != nil {
		return nil, err
	}

	code, err := s.ledger.Issue(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("issue otp: %w", err)
	}
	s.metrics.RecordOTPIssued(channel)

	body := "Your OTP is: " + code
	if channel == ChannelEmail {
		if err := s.email.Send(ctx, key, otpSubject, body); err != nil {
			s.logger.Error("otp email delivery failed", zap.String("identifier", key), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", domain.ErrCollaboratorUnavailable, err)
		}
		return &SendResult{Identifier: key, Channel: channel, Message: "OTP sent to email"}, nil
	}

	if err := s.sms.SendSMS(ctx, key, body); err != nil {
		s.logger.Error("otp sms delivery failed", zap.String("identifier", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrCollaboratorUnavailable, err)
	}
	return &SendResult{Identifier: key, Channel: channel, Message: "OTP sent to phone"}, nil
}

// VerifyOTP consumes the code issued for identifier. Every failure is reported
// as ErrOTPInvalidOrExpired.
func (s *VerificationService) VerifyOTP(ctx context.Context, identifier, code string) (*VerifyResult, error) {
	channel, key, err := resolveChannel(identifier, "")
	if err != nil {
		return nil, err
	}

	if err := s.consume(ctx, key, code); err != nil {
		return nil, err
	}

	result := &VerifyResult{Identifier: key}
	if channel == ChannelPhone {
		nonce, err := s.ledger.Issue(ctx, tokenPrefix+key)
		if err != nil {
			return nil, fmt.Errorf("issue verification nonce: %w", err)
		}
		token, exp, err := s.tokens.GenerateVerificationToken(key, nonce)
		if err != nil {
			return nil, err
		}
		result.VerificationToken = token
		result.ExpiresAt = exp
	}
	return result, nil
}

// Register creates an identity once its phone number has been verified.
func (s *VerificationService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	phone := otp.NormalizePhone(input.Phone)
	if name == "" || email == "" || phone == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email, phone and password are required", nil)
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"role": input.Role})
	}
	if role == domain.RoleAdmin && !s.allowAdminSignup {
		return nil, domain.ErrForbidden
	}

	if err := s.ensureUnique(ctx, email, phone, input.Phone); err != nil {
		return nil, err
	}

	if err := s.proveVerified(ctx, phone, input.VerificationToken, input.OTP); err != nil {
		return nil, err
	}

	stored, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:              name,
		Email:             email,
		Phone:             phone,
		Password:          stored,
		Role:              role,
		EnrolledCourseIDs: []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))

	return s.issue(user)
}

// Login authenticates by email or phone plus password. Unknown identifiers
// and wrong passwords are indistinguishable.
func (s *VerificationService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	var (
		user *domain.User
		err  error
	)
	if otp.LooksLikePhone(identifier) {
		user, err = s.lookupPhone(ctx, identifier)
	} else {
		user, err = s.users.FindByEmailOrPhone(ctx, identifier)
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.passwords.Matches(user.Password, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

// LoginWithPhone signs in the identity owning phone after OTP proof, either a
// fresh code or a verification token from VerifyOTP.
func (s *VerificationService) LoginWithPhone(ctx context.Context, phone, code, verificationToken string) (*AuthResult, error) {
	normalized := otp.NormalizePhone(phone)
	if normalized == "" {
		return nil, apperrors.NewValidationError("phone is required", nil)
	}

	if err := s.proveVerified(ctx, normalized, verificationToken, code); err != nil {
		return nil, err
	}

	user, err := s.lookupPhone(ctx, phone)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUserNotRegistered
	}
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// RequestPasswordReset emails a reset code. Unknown emails succeed silently.
func (s *VerificationService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug("password reset for unknown email", zap.String("email", email))
			return nil
		}
		return err
	}

	key := resetPrefix + email
	if err := s.throttle(ctx, key); err != nil {
		return err
	}
	code, err := s.ledger.Issue(ctx, key)
	if err != nil {
		return fmt.Errorf("issue reset otp: %w", err)
	}
	s.metrics.RecordOTPIssued("reset")

	if err := s.email.Send(ctx, email, resetSubject, "Your OTP is: "+code); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCollaboratorUnavailable, err)
	}
	return nil
}

// ConfirmPasswordReset consumes the reset code and replaces the password.
func (s *VerificationService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	if err := s.consume(ctx, resetPrefix+email, code); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	stored, err := s.passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, stored)
}

// consume matches code exactly; padding is not stripped.
func (s *VerificationService) consume(ctx context.Context, key, code string) error {
	if code == "" {
		s.metrics.RecordOTPVerification(false)
		return domain.ErrOTPInvalidOrExpired
	}
	ok, err := s.ledger.Verify(ctx, key, code)
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	s.metrics.RecordOTPVerification(ok)
	if !ok {
		return domain.ErrOTPInvalidOrExpired
	}
	return nil
}

// proveVerified accepts a verification token bound to phone, or else a code
// that verifies for phone. A token is redeemed at most once.
func (s *VerificationService) proveVerified(ctx context.Context, phone, token, code string) error {
	if token != "" {
		verified, nonce, err := s.tokens.ParseVerificationToken(token)
		if err != nil || verified != phone {
			return domain.ErrVerificationRequired
		}
		ok, err := s.ledger.Verify(ctx, tokenPrefix+phone, nonce)
		if err != nil {
			return fmt.Errorf("redeem verification token: %w", err)
		}
		if !ok {
			return domain.ErrVerificationRequired
		}
		return nil
	}
	if code != "" {
		return s.consume(ctx, phone, code)
	}
	return domain.ErrVerificationRequired
}

func (s *VerificationService) ensureUnique(ctx context.Context, email, phone, rawPhone string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.NewDuplicateIdentity("email")
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	if _, err := s.lookupPhone(ctx, rawPhone); err == nil {
		return domain.NewDuplicateIdentity("phone")
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	return nil
}

// lookupPhone tries the normalized form first and then the raw input, which
// catches records stored before normalization was enforced.
func (s *VerificationService) lookupPhone(ctx context.Context, raw string) (*domain.User, error) {
	normalized := otp.NormalizePhone(raw)
	user, err := s.users.GetByPhone(ctx, normalized)
	if err == nil || !errors.Is(err, domain.ErrUserNotFound) {
		return user, err
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == normalized {
		return nil, domain.ErrUserNotFound
	}
	return s.users.GetByPhone(ctx, trimmed)
}

func (s *VerificationService) throttle(ctx context.Context, key string) error {
	res, err := s.limiter.Allow(ctx, key)
	if err != nil {
		// Fail open so a throttle outage never blocks sign-in.
		s.logger.Warn("otp throttle unavailable", zap.Error(err))
		return nil
	}
	if !res.Allowed {
		return domain.ErrOTPThrottled
	}
	return nil
}

func (s *VerificationService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func resolveChannel(identifier, channel string) (string, string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", "", apperrors.NewValidationError("identifier is required", nil)
	}

	switch strings.ToLower(strings.TrimSpace(channel)) {
	case "":
		if otp.LooksLikePhone(identifier) {
			return ChannelPhone, otp.NormalizePhone(identifier), nil
		}
		return ChannelEmail, identifier, nil
	case ChannelEmail:
		return ChannelEmail, identifier, nil
	case ChannelPhone:
		if !otp.LooksLikePhone(identifier) {
			return "", "", apperrors.NewValidationError("identifier is not a phone number", map[string]any{"identifier": identifier})
		}
		return ChannelPhone, otp.NormalizePhone(identifier), nil
	default:
		return "", "", apperrors.NewValidationError("type must be email or phone", map[string]any{"type": channel})
	}
}
