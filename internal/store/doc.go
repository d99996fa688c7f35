// Package store declares the persistence contract for tasks and the errors
// every implementation reports. The PostgreSQL implementation lives in
// internal/platform/postgres; the Redis cache in internal/platform/cache
// wraps any TaskStore.
package store
