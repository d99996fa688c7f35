package mocks

import (
	"sync"

	"github.com/phrazzld/task-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

// PasswordComparison records one call to MockPasswordVerifier.Compare.
type PasswordComparison struct {
	HashedPassword string
	Password       string
}

// MockPasswordVerifier implements auth.PasswordVerifier and records every
// comparison. Without CompareFn it succeeds when ShouldSucceed is set and
// otherwise reports a bcrypt mismatch.
type MockPasswordVerifier struct {
	ShouldSucceed bool
	CompareFn     func(hashedPassword, password string) error

	mu    sync.Mutex
	calls []PasswordComparison
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements auth.PasswordVerifier.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.calls = append(m.calls, PasswordComparison{HashedPassword: hashedPassword, Password: password})
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return bcrypt.ErrMismatchedHashAndPassword
}

// Calls returns the recorded comparisons in order.
func (m *MockPasswordVerifier) Calls() []PasswordComparison {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PasswordComparison(nil), m.calls...)
}
