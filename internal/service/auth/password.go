package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on failure (e.g., mismatch).
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// CredentialChecker decides whether a login attempt is accepted.
type CredentialChecker interface {
	Check(username, password string) error
}

// AnyNonBlankChecker accepts every pair whose username and password both
// contain a non-whitespace character. It is a placeholder for a real user store.
type AnyNonBlankChecker struct{}

// Check implements CredentialChecker.
func (AnyNonBlankChecker) Check(username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// FixedCredentialChecker accepts a single configured username whose password
// matches a stored hash.
type FixedCredentialChecker struct {
	Username     string
	PasswordHash string
	Verifier     PasswordVerifier
}

// Check implements CredentialChecker.
func (c FixedCredentialChecker) Check(username, password string) error {
	// Hash comparison runs even on a username mismatch so timing does not
	// reveal which half was wrong.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passErr := c.Verifier.Compare(c.PasswordHash, password)
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
