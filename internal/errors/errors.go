package errors

import (
	"errors"
	"fmt"
)

// Common error kinds for the tenant portal
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrLoginSuperseded    = errors.New("login superseded by a newer attempt")

	// Session errors
	ErrCorruptSession = errors.New("corrupt session")

	// Remote API errors
	ErrNetwork = errors.New("network error")

	// General errors
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnsupported    = errors.New("unsupported operation")
)

// MessageError carries a human readable message (usually provided by the
// backend) while still matching its kind with errors.Is.
type MessageError struct {
	Kind error
	Msg  string
}

func (e *MessageError) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *MessageError) Unwrap() error {
	return e.Kind
}

// Message returns an error of the given kind whose text is msg.
// An empty msg falls back to the kind's own text.
func Message(kind error, msg string) error {
	return &MessageError{Kind: kind, Msg: msg}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
