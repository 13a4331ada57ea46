package apiclient

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/jrsteele09/go-storefront/internal/errors"
)

// Error is a non-2xx API response
type Error struct {
	Status    int
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

// Is lets callers match status classes against the shared sentinels
func (e *Error) Is(target error) bool {
	switch target {
	case errors.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case errors.ErrNotFound:
		return e.Status == http.StatusNotFound
	case errors.ErrInvalidInput:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// Message returns the text to show a visitor for err. API messages are used
// as-is, validation errors carry their own text, anything else gets fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var v *errors.ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	return fallback
}

// extractMessage reads {error:{message}}, {message} or {error} in that order
func extractMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"error.message", "message", "error"} {
		r := gjson.GetBytes(body, path)
		if r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}
