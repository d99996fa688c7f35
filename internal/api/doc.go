// Package api handles incoming HTTP requests for tasks and login: request
// decoding and validation, calls into the task service and auth gate, and the
// mapping of their results onto HTTP status codes and JSON bodies.
package api
