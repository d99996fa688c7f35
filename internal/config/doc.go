// Package config handles configuration loading, parsing, and validation
// from the environment (optionally seeded from a .env file). It produces one
// Config value at startup which is passed into every component's constructor,
// so business logic never reads the environment directly.
package config
