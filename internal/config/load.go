package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps configuration keys to the environment variables that set them.
var envBindings = map[string]string{
	"server.bind_addr":                   "BIND_ADDR",
	"server.read_timeout_seconds":        "SERVER_READ_TIMEOUT_SECONDS",
	"server.write_timeout_seconds":       "SERVER_WRITE_TIMEOUT_SECONDS",
	"database.url":                       "DATABASE_URL",
	"database.max_open_conns":            "DB_MAX_OPEN_CONNS",
	"database.max_idle_conns":            "DB_MAX_IDLE_CONNS",
	"database.conn_max_lifetime_minutes": "DB_CONN_MAX_LIFETIME_MINUTES",
	"auth.jwt_secret":                    "JWT_SECRET",
	"auth.read_only_without_jwt":         "READ_ONLY_WITHOUT_JWT",
	"auth.token_lifetime_minutes":        "AUTH_TOKEN_LIFETIME_MINUTES",
	"auth.username":                      "AUTH_USERNAME",
	"auth.password_hash":                 "AUTH_PASSWORD_HASH",
	"log.level":                          "LOG_LEVEL",
	"log.file":                           "LOG_FILE",
	"log.max_size_mb":                    "LOG_MAX_SIZE_MB",
	"log.max_backups":                    "LOG_MAX_BACKUPS",
	"log.max_age_days":                   "LOG_MAX_AGE_DAYS",
	"cache.redis_url":                    "CACHE_REDIS_URL",
	"cache.ttl_seconds":                  "CACHE_TTL_SECONDS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.bind_addr", "0.0.0.0:8080")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("auth.read_only_without_jwt", true)
	v.SetDefault("auth.token_lifetime_minutes", 12*60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("cache.ttl_seconds", 60)
}

// Load reads configuration from an optional .env file, an optional config.yaml
// in the working directory, and the process environment, in increasing order
// of precedence. The result is validated before it is returned.
func Load() (*Config, error) {
	// A missing .env file is the normal case in containers.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
