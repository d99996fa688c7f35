package domain

import (
	"strings"
	"time"
)

// Task is the single persisted entity of the service.
//
// ID and CreatedAt are assigned by the store and never change afterwards.
type Task struct {
	ID        int64     `json:"id"         db:"id"`
	Title     string    `json:"title"      db:"title"`
	Completed bool      `json:"completed"  db:"completed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TaskUpdate carries the fields of a partial update. A nil field is left unchanged.
type TaskUpdate struct {
	Title     *string
	Completed *bool
}

// IsEmpty reports whether the update would change nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Completed == nil
}

// NormalizeTitle trims surrounding whitespace from a raw title and rejects
// titles that are left empty.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", NewValidationError("title", "cannot be empty", ErrEmptyTitle)
	}
	return title, nil
}

// Validate checks that a stored task has every field populated.
func (t *Task) Validate() error {
	if t.ID <= 0 {
		return NewValidationError("id", "must be positive", ErrInvalidID)
	}
	if _, err := NormalizeTitle(t.Title); err != nil {
		return err
	}
	if t.CreatedAt.IsZero() {
		return NewValidationError("created_at", "must be set", ErrValidation)
	}
	return nil
}
