// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests call GetTestDBWithT, which skips when no test database is
// configured outside CI, and run each case inside WithTx so nothing they
// write survives the test.
package testdb
