package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
)

// AnonymousSubject is the subject of requests admitted without a token.
const AnonymousSubject = "anonymous"

// Identity describes who a request was authorized as.
type Identity struct {
	Subject   string
	Anonymous bool
}

// Anonymous is the identity of unauthenticated requests that were let through.
var Anonymous = Identity{Subject: AnonymousSubject, Anonymous: true}

// Token is an issued bearer token.
type Token struct {
	Value     string
	ExpiresAt time.Time
	Lifetime  time.Duration
}

// Gate decides whether requests may proceed and issues tokens on login.
type Gate interface {
	// Enabled reports whether tokens are issued and checked at all.
	Enabled() bool

	// Login exchanges a credential pair for a token.
	// Returns ErrAuthDisabled when the gate is disabled and
	// ErrInvalidCredentials when the pair is rejected.
	Login(ctx context.Context, username, password string) (*Token, error)

	// Authorize inspects the request's method and Authorization header.
	// Returns ErrMissingToken, ErrInvalidToken or ErrExpiredToken when the
	// request must be refused.
	Authorize(r *http.Request) (Identity, error)
}

// NewGate selects the gate variant from configuration. Without a JWT secret
// every request is admitted and login is refused. checker may be nil, in which
// case it is derived from cfg.
func NewGate(
	cfg config.AuthConfig,
	checker CredentialChecker,
	logger *slog.Logger,
) (Gate, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "auth_gate"))

	if !cfg.Enabled() {
		logger.Info("authentication disabled: no JWT secret configured")
		return disabledGate{}, nil
	}

	jwtService, err := NewJWTService(cfg)
	if err != nil {
		return nil, err
	}

	if checker == nil {
		checker = CheckerFromConfig(cfg)
	}

	logger.Info("authentication enabled",
		slog.Bool("read_only_without_jwt", cfg.ReadOnlyWithoutJWT),
		slog.Bool("fixed_credential", cfg.HasFixedCredential()))

	return NewEnabledGate(jwtService, checker, cfg.ReadOnlyWithoutJWT, cfg.TokenLifetime(), logger), nil
}

// NewEnabledGate builds a token-checking gate from its parts.
func NewEnabledGate(
	jwtService JWTService,
	checker CredentialChecker,
	readOnlyWithoutJWT bool,
	lifetime time.Duration,
	logger *slog.Logger,
) Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &enabledGate{
		jwt:                jwtService,
		checker:            checker,
		readOnlyWithoutJWT: readOnlyWithoutJWT,
		lifetime:           lifetime,
		logger:             logger,
	}
}

// CheckerFromConfig returns the bcrypt-backed checker when a fixed credential
// is configured and the non-blank placeholder otherwise.
func CheckerFromConfig(cfg config.AuthConfig) CredentialChecker {
	if cfg.HasFixedCredential() {
		return FixedCredentialChecker{
			Username:     cfg.Username,
			PasswordHash: cfg.PasswordHash,
			Verifier:     NewBcryptVerifier(),
		}
	}
	return AnyNonBlankChecker{}
}

type disabledGate struct{}

func (disabledGate) Enabled() bool { return false }

func (disabledGate) Login(context.Context, string, string) (*Token, error) {
	return nil, ErrAuthDisabled
}

func (disabledGate) Authorize(*http.Request) (Identity, error) {
	return Anonymous, nil
}

type enabledGate struct {
	jwt                JWTService
	checker            CredentialChecker
	readOnlyWithoutJWT bool
	lifetime           time.Duration
	logger             *slog.Logger
}

func (g *enabledGate) Enabled() bool { return true }

func (g *enabledGate) Login(ctx context.Context, username, password string) (*Token, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if err := g.checker.Check(username, password); err != nil {
		log.Warn("login rejected")
		return nil, ErrInvalidCredentials
	}

	value, expiresAt, err := g.jwt.GenerateToken(ctx, username)
	if err != nil {
		return nil, err
	}

	log.Info("token issued", slog.Time("expires_at", expiresAt))
	return &Token{Value: value, ExpiresAt: expiresAt, Lifetime: g.lifetime}, nil
}

func (g *enabledGate) Authorize(r *http.Request) (Identity, error) {
	if g.readOnlyWithoutJWT && r.Method == http.MethodGet {
		return Anonymous, nil
	}

	tokenString, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return Identity{}, err
	}

	claims, err := g.jwt.ValidateToken(r.Context(), tokenString)
	if err != nil {
		return Identity{}, err
	}

	return Identity{Subject: claims.Subject}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
