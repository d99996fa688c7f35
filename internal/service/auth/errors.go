package auth

import "errors"

// Common authentication errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials indicates a login attempt was rejected.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAuthDisabled is returned by Login when no signing secret is configured.
	ErrAuthDisabled = errors.New("authentication is not enabled on this server")
)
