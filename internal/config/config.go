package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig contains the HTTP listener settings.
type ServerConfig struct {
	BindAddr            string `mapstructure:"bind_addr"             validate:"required,hostname_port"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"  validate:"gt=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"gt=0"`
}

// ReadTimeout returns the server read timeout as a duration.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout as a duration.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// DatabaseConfig contains the connection string and pool bounds.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
//
// Authentication is enabled exactly when JWTSecret is non-empty.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"omitempty,min=32"`
	ReadOnlyWithoutJWT   bool   `mapstructure:"read_only_without_jwt"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`

	// Optional fixed credential. When both are set, login checks the password
	// against the bcrypt hash instead of accepting any non-blank pair.
	Username     string `mapstructure:"username"      validate:"required_with=PasswordHash"`
	PasswordHash string `mapstructure:"password_hash" validate:"required_with=Username"`
}

// Enabled reports whether a signing secret is configured.
func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}

// HasFixedCredential reports whether login is restricted to one bcrypt-checked user.
func (c AuthConfig) HasFixedCredential() bool {
	return c.Username != "" && c.PasswordHash != ""
}

// TokenLifetime returns the access token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// LogConfig controls the slog handler and optional file rotation.
type LogConfig struct {
	Level      string `mapstructure:"level"        validate:"required,oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  validate:"gt=0"`
	MaxBackups int    `mapstructure:"max_backups"  validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// CacheConfig configures the optional Redis read-through cache.
type CacheConfig struct {
	RedisURL   string `mapstructure:"redis_url"   validate:"omitempty,url"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gt=0"`
}

// Enabled reports whether a Redis URL is configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisURL != ""
}

// TTL returns the cache entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
