package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password storage modes.
const (
	PasswordModePlain  = "plain"
	PasswordModeBcrypt = "bcrypt"
)

// PasswordChecker prepares passwords for storage and compares candidates.
type PasswordChecker interface {
	Hash(password string) (string, error)
	Matches(stored, candidate string) bool
}

// NewPasswordChecker selects the checker for mode.
func NewPasswordChecker(mode string, cost int) (PasswordChecker, error) {
	switch mode {
	case "", PasswordModePlain:
		return PlainChecker{}, nil
	case PasswordModeBcrypt:
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			cost = bcrypt.DefaultCost
		}
		return BcryptChecker{Cost: cost}, nil
	default:
		return nil, fmt.Errorf("unknown password mode %q", mode)
	}
}

// PlainChecker stores passwords as given and compares by equality, matching
// records created by the legacy deployment.
type PlainChecker struct{}

func (PlainChecker) Hash(password string) (string, error) { return password, nil }

func (PlainChecker) Matches(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// BcryptChecker hashes passwords with bcrypt.
type BcryptChecker struct {
	Cost int
}

func (b BcryptChecker) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (BcryptChecker) Matches(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}
