// Package testutils provides helpers for API tests: an in-memory task store
// and an httptest server wired with the production route table.
package testutils
