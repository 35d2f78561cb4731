package model

import (
	"errors"
	"fmt"
)

// ErrInvalid is the kind of every validation failure.
var ErrInvalid = errors.New("invalid input")

// ValidationError describes one rejected field of a task or resource.
type ValidationError struct {
	Entity string // "task" or "resource"
	ID     string
	Field  string
	Msg    string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s %s: %s", ErrInvalid, e.Entity, e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s %q %s: %s", ErrInvalid, e.Entity, e.ID, e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

func taskErr(id, field, format string, args ...any) error {
	return &ValidationError{Entity: "task", ID: id, Field: field, Msg: fmt.Sprintf(format, args...)}
}

func resourceErr(id, field, format string, args ...any) error {
	return &ValidationError{Entity: "resource", ID: id, Field: field, Msg: fmt.Sprintf(format, args...)}
}
