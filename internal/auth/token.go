package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

// Token purposes. Access tokens authenticate requests; verification tokens
// prove a phone number passed OTP verification and gate registration.
const (
	PurposeAccess            = "access"
	PurposePhoneVerification = "phone_verification"
)

var (
	errWrongPurpose = errors.New("token purpose mismatch")
	errMissingNonce = errors.New("verification token has no nonce")
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret          []byte
	ttl             time.Duration
	verificationTTL time.Duration
	now             func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes, verificationTTLMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	if verificationTTLMinutes <= 0 {
		verificationTTLMinutes = 10
	}
	return &TokenManager{
		secret:          []byte(secret),
		ttl:             time.Duration(ttlMinutes) * time.Minute,
		verificationTTL: time.Duration(verificationTTLMinutes) * time.Minute,
		now:             time.Now,
	}
}

// Claims describes JWT payload.
type Claims struct {
	SubjectID string      `json:"sub"`
	Role      domain.Role `json:"role,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Purpose   string      `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs an access token for the user.
func (tm *TokenManager) GenerateToken(userID string, role domain.Role) (string, time.Time, error) {
	return tm.sign(&Claims{SubjectID: userID, Role: role, Purpose: PurposeAccess}, userID, tm.ttl, "")
}

// GenerateVerificationToken signs proof that phone passed OTP verification.
// nonce becomes the jti; callers redeem it once against their own store.
func (tm *TokenManager) GenerateVerificationToken(phone, nonce string) (string, time.Time, error) {
	return tm.sign(&Claims{Phone: phone, Purpose: PurposePhoneVerification}, phone, tm.verificationTTL, nonce)
}

// ParseToken validates an access token and returns its claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeAccess {
		return nil, errWrongPurpose
	}
	return claims, nil
}

// ParseVerificationToken validates a phone-verification token and returns the
// phone it covers and its nonce.
func (tm *TokenManager) ParseVerificationToken(tokenStr string) (phone, nonce string, err error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		return "", "", err
	}
	if claims.Purpose != PurposePhoneVerification || claims.Phone == "" {
		return "", "", errWrongPurpose
	}
	if claims.ID == "" {
		return "", "", errMissingNonce
	}
	return claims.Phone, claims.ID, nil
}

func (tm *TokenManager) sign(claims *Claims, subject string, ttl time.Duration, id string) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        id,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (tm *TokenManager) parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
