package ciutil

import "log/slog"

// GetTestDatabaseURL returns the URL of the integration test database:
// TASK_TEST_DB_URL when set, DATABASE_URL otherwise, or "" when neither is.
func GetTestDatabaseURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvTaskTestDBURL, EnvDatabaseURL}, "", logger)
}

// RequireDatabase reports whether a missing test database should fail
// integration tests rather than skip them. CI runs always provide one.
func RequireDatabase() bool {
	return IsCI()
}
