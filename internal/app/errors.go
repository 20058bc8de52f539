package app

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrPasswordTooLong   = errors.New("password exceeds 72 bytes")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrNoteNotFound      = errors.New("note not found")
)

// ValidationError carries every problem found in a request, in the order
// they were detected.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, " ")
}

func (e *ValidationError) add(msg string) {
	e.Messages = append(e.Messages, msg)
}

func (e *ValidationError) orNil() error {
	if len(e.Messages) == 0 {
		return nil
	}
	return e
}
