package config

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("required field is missing")
	ErrNoTasks      = errors.New("no tasks configured")
)

// Error reports a problem with the config file or one of its fields.
type Error struct {
	Path  string
	Field string
	Err   error
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Path != "":
		return fmt.Sprintf("config %s: %s: %v", e.Path, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
	case e.Path != "":
		return fmt.Sprintf("config %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("config: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MissingField builds the error for an absent task field, e.g. "tasks[0].source".
func MissingField(task int, field string) *Error {
	return &Error{Field: fmt.Sprintf("tasks[%d].%s", task, field), Err: ErrMissingField}
}
