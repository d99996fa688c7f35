// Package cache provides a Redis read-through decorator for store.TaskStore.
package cache
