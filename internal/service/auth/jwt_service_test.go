package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestJWTService(t *testing.T, secret string, lifetimeMinutes int, now func() time.Time) JWTService {
	t.Helper()
	svc, err := NewJWTServiceWithClock(config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: lifetimeMinutes,
	}, now)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AuthConfig
		wantErr bool
	}{
		{name: "valid", cfg: config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60}},
		{name: "short_secret", cfg: config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60}, wantErr: true},
		{name: "zero_lifetime", cfg: config.AuthConfig{JWTSecret: testSecret}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewJWTService(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, testSecret, 720, func() time.Time { return fixedTime })

	token, expiresAt, err := svc.GenerateToken(context.Background(), "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, fixedTime.Add(12*time.Hour).Unix(), expiresAt.Unix())

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	other, _, err := svc.GenerateToken(context.Background(), "alice")
	require.NoError(t, err)
	otherClaims, err := svc.ValidateToken(context.Background(), other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 60 * time.Minute
	issuer := newTestJWTService(t, testSecret, 60, func() time.Time { return issued })

	token, _, err := issuer.GenerateToken(context.Background(), "bob")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "bob",
		ExpiresAt: jwt.NewNumericDate(issued.Add(lifetime)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "bob",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		secret  string
		now     time.Time
		token   string
		wantErr error
	}{
		{name: "valid", secret: testSecret, now: issued.Add(time.Minute), token: token},
		{name: "one_second_before_expiry", secret: testSecret, now: issued.Add(lifetime - time.Second), token: token},
		{name: "at_expiry", secret: testSecret, now: issued.Add(lifetime), token: token, wantErr: ErrExpiredToken},
		{name: "after_expiry", secret: testSecret, now: issued.Add(2 * lifetime), token: token, wantErr: ErrExpiredToken},
		{name: "wrong_secret", secret: "wrong-secret-that-is-long-enough-for-testing", now: issued, token: token, wantErr: ErrInvalidToken},
		{name: "malformed", secret: testSecret, now: issued, token: "not.a.jwt", wantErr: ErrInvalidToken},
		{name: "empty", secret: testSecret, now: issued, token: "", wantErr: ErrInvalidToken},
		{name: "alg_none", secret: testSecret, now: issued, token: noneToken, wantErr: ErrInvalidToken},
		{name: "missing_exp", secret: testSecret, now: issued, token: noExpToken, wantErr: ErrInvalidToken},
		{name: "issued_in_future", secret: testSecret, now: issued.Add(-time.Hour), token: token, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			validator := newTestJWTService(t, tt.secret, 60, func() time.Time { return tt.now })

			claims, err := validator.ValidateToken(context.Background(), tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "bob", claims.Subject)
		})
	}
}
