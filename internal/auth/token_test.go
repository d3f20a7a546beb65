package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 60, 10)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleStudent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.SubjectID)
	assert.Equal(t, domain.RoleStudent, claims.Role)
}

func TestTokenPurposesAreNotInterchangeable(t *testing.T) {
	tm := NewTokenManager("secret", 60, 10)

	verification, _, err := tm.GenerateVerificationToken("+919876543210", "483920")
	require.NoError(t, err)
	_, err = tm.ParseToken(verification)
	assert.Error(t, err)

	phone, nonce, err := tm.ParseVerificationToken(verification)
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", phone)
	assert.Equal(t, "483920", nonce)

	access, _, err := tm.GenerateToken("user-1", domain.RoleAdmin)
	require.NoError(t, err)
	_, _, err = tm.ParseVerificationToken(access)
	assert.Error(t, err)
}

func TestVerificationTokenRequiresNonce(t *testing.T) {
	tm := NewTokenManager("secret", 60, 10)

	token, _, err := tm.GenerateVerificationToken("+919876543210", "")
	require.NoError(t, err)
	_, _, err = tm.ParseVerificationToken(token)
	assert.ErrorIs(t, err, errMissingNonce)
}

func TestVerificationTokenExpires(t *testing.T) {
	tm := NewTokenManager("secret", 60, 10)
	issued := time.Now()
	tm.now = func() time.Time { return issued }

	token, _, err := tm.GenerateVerificationToken("+919876543210", "483920")
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(11 * time.Minute) }
	_, _, err = tm.ParseVerificationToken(token)
	assert.Error(t, err)
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	token, _, err := NewTokenManager("one", 60, 10).GenerateToken("user-1", domain.RoleStudent)
	require.NoError(t, err)

	_, err = NewTokenManager("two", 60, 10).ParseToken(token)
	assert.Error(t, err)
}
