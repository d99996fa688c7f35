package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
)

// LoginRequest is the body of POST /api/login.
// Presence is checked here; blank values are rejected by the credential rule.
type LoginRequest struct {
	Username *string `json:"username" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token          string    `json:"token"`
	ExpiresAt      time.Time `json:"expires_at"`
	ExpiresInHours int64     `json:"expires_in_hours"`
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title *string `json:"title" validate:"required"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. Both fields are optional.
type UpdateTaskRequest struct {
	Title     OptionalString `json:"title"`
	Completed OptionalBool   `json:"completed"`
}

// ToDomain converts the request into a domain update.
// An explicit null for either field is rejected.
func (r UpdateTaskRequest) ToDomain() (domain.TaskUpdate, error) {
	var update domain.TaskUpdate

	if r.Title.Set {
		if r.Title.Null {
			return update, domain.NewValidationError("title", "cannot be null", domain.ErrNullField)
		}
		title := r.Title.Value
		update.Title = &title
	}

	if r.Completed.Set {
		if r.Completed.Null {
			return update, domain.NewValidationError("completed", "cannot be null", domain.ErrNullField)
		}
		completed := r.Completed.Value
		update.Completed = &completed
	}

	return update, nil
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC(),
	}
}

func toTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

var jsonNull = []byte("null")

// OptionalString distinguishes an absent field, an explicit null and a value.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

// UnmarshalJSON implements json.Unmarshaler. It is only called when the
// field is present in the input.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// OptionalBool distinguishes an absent field, an explicit null and a value.
type OptionalBool struct {
	Set   bool
	Null  bool
	Value bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
