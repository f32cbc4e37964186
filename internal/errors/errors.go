package errors

import (
	"errors"
	"fmt"
)

// Common error types for the platform API
var (
	// Authentication errors — surfaced to the client as one generic message
	// per operation, never anything more specific
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserInactive        = errors.New("user not found or inactive")

	// Authorization errors
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidToken           = errors.New("invalid token")

	// CSRF errors
	ErrCsrfTokenMissing  = errors.New("CSRF token missing")
	ErrCsrfTokenMismatch = errors.New("CSRF token mismatch")

	// Configuration errors — fatal at startup, never reach request handling
	ErrMissingSecret = errors.New("missing signing secret")
	ErrWeakSecret    = errors.New("signing secret too short")

	// Store errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// General errors
	ErrInternal = errors.New("internal error")
)

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
