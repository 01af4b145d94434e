package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for any operation on an id that does not exist,
	// including a repeated delete of an already removed record.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is returned when a required field is missing or mistyped.
	ErrValidation = errors.New("validation failed")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
