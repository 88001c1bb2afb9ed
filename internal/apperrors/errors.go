// Package apperrors defines the error taxonomy for the User Directory API
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel error classes. Services wrap these with a human-readable
// message; handlers map them to HTTP statuses and response error types.
var (
	ErrParameter      = errors.New("parameter error")
	ErrPermission     = errors.New("permission error")
	ErrAuthentication = errors.New("authentication error")
	ErrIntegrity      = errors.New("integrity error")
	ErrBackend        = errors.New("backend error")
)

// Parameter returns a parameter error with a formatted message.
func Parameter(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrParameter, fmt.Sprintf(format, args...))
}

// Permission returns a permission error with a formatted message.
func Permission(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPermission, fmt.Sprintf(format, args...))
}

// Authentication returns an authentication error with a formatted message.
func Authentication(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrAuthentication, fmt.Sprintf(format, args...))
}

// Integrity returns an integrity error with a formatted message.
func Integrity(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrIntegrity, fmt.Sprintf(format, args...))
}

// Backend wraps a store failure.
func Backend(err error) error {
	return fmt.Errorf("%w: %v", ErrBackend, err)
}

// Message strips the class prefix from a wrapped error, leaving the
// human-readable part for API responses.
func Message(err error) string {
	for _, class := range []error{ErrParameter, ErrPermission, ErrAuthentication, ErrIntegrity, ErrBackend} {
		if errors.Is(err, class) {
			msg := err.Error()
			prefix := class.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
