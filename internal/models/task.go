package models

import (
	"errors"
	"strings"
)

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a required field that was empty after trimming.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Task represents a single to-do item within a list.
type Task struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Deadline    string `json:"deadline" yaml:"deadline"` // caller-supplied format, usually YYYY-MM-DD
	Completed   bool   `json:"completed" yaml:"completed"`
}

// Fields holds the user-editable values of a task as submitted by a form.
type Fields struct {
	Title       string
	Description string
	Deadline    string
}

// Normalize returns the fields with surrounding whitespace removed.
func (f Fields) Normalize() Fields {
	return Fields{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Deadline:    strings.TrimSpace(f.Deadline),
	}
}

// Validate checks that every field is present.
func (f Fields) Validate() error {
	n := f.Normalize()
	if n.Title == "" {
		return &ValidationError{Field: "title"}
	}
	if n.Description == "" {
		return &ValidationError{Field: "description"}
	}
	if n.Deadline == "" {
		return &ValidationError{Field: "deadline"}
	}
	return nil
}

// NewTask builds an open task from validated fields.
func NewTask(f Fields) (Task, error) {
	if err := f.Validate(); err != nil {
		return Task{}, err
	}
	n := f.Normalize()
	return Task{
		Title:       n.Title,
		Description: n.Description,
		Deadline:    n.Deadline,
	}, nil
}

// Fields returns the editable values of the task.
func (t Task) Fields() Fields {
	return Fields{
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
	}
}

// AllCompleted reports whether tasks is non-empty and every task is completed.
func AllCompleted(tasks []Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}
