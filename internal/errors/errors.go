package errors

import (
	"errors"
	"fmt"
)

// Common error types for the storefront
var (
	// Authentication errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRefreshFailed  = errors.New("token refresh failed")
	ErrNoRefreshToken = errors.New("no refresh token stored")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrInvalidState   = errors.New("invalid oauth state")
	ErrInvalidNonce   = errors.New("invalid nonce")

	// Session errors
	ErrSessionCorrupt = errors.New("session corrupt")

	// Upstream errors
	ErrUnavailable  = errors.New("api unavailable")
	ErrBadEnvelope  = errors.New("malformed api response")
	ErrUploadFailed = errors.New("media upload failed")

	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError is a client-side rejection whose message is shown to the
// user as-is. No network call has been made when one is returned.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Validation creates a ValidationError with a user-facing message
func Validation(msg string) error {
	return &ValidationError{Message: msg}
}

// LoginRequired rejects an action needing a logged-in session. It matches
// ErrNotLoggedIn and shows msg to the user.
func LoginRequired(msg string) error {
	return &ValidationError{Message: msg, Cause: ErrNotLoggedIn}
}

// IsValidation reports whether err is a client-side validation rejection
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
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

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return errors.Join(errs...)
}
