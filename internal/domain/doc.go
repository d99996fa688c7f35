// Package domain contains the task entity, its validation rules, and the
// domain errors shared by the service and API layers. It has no knowledge of
// storage or transport.
package domain
