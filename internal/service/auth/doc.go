// Package auth implements optional bearer-token authentication: HS256 token
// issuance and verification, the login credential rule, and the Gate that
// decides per request whether it may proceed.
package auth
