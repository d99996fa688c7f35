// Package service contains the task use cases. It normalizes and validates
// input with the rules in internal/domain, calls the store defined in
// internal/store, and translates store failures into errors the API layer can
// map onto responses.
//
// Services receive their dependencies through constructors and never depend on
// a concrete store implementation. Authentication lives in the auth
// subpackage.
package service
