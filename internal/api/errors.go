package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a failure reported by the backend. Validation failures
// carry per-field detail in Fields and are surfaced verbatim; nothing
// in the client retries automatically.
type Error struct {
	StatusCode int               `json:"-"`
	Message    string            `json:"error"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for k, v := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v))
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
	}
	return e.Message
}

// IsNotFound reports whether err is a stale-reference failure: the
// referenced entity no longer resolves on the server. Callers treat
// these as empty results for lazily loaded sublists, because a task
// deleted under an open detail view is an expected race.
func IsNotFound(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound ||
			strings.Contains(strings.ToLower(apiErr.Message), "no encontrad") ||
			strings.Contains(strings.ToLower(apiErr.Message), "not found")
	}
	return false
}

// IsUnauthorized reports whether err is an authorization failure; the
// operation is abandoned, never retried.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized ||
			apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// FieldErrors returns structured per-field validation detail, or nil.
func FieldErrors(err error) map[string]string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
