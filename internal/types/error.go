package types

import (
	"fmt"
	"sort"
	"strings"
)

// CustomError carries the HTTP status and the detail message to answer with
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NewError returns a CustomError with the given status and detail
func NewError(code int, message, errorType string) *CustomError {
	return &CustomError{Code: code, Message: message, Type: errorType}
}

// FieldErrors maps request fields to their validation messages. It renders
// as the 400 response body as is.
type FieldErrors map[string][]string

// NonFieldErrors is the key for errors that belong to no single field
const NonFieldErrors = "non_field_errors"

// Add appends a message for field
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Any reports whether at least one error was recorded
func (f FieldErrors) Any() bool {
	return len(f) > 0
}

// Err returns f as an error, or nil when empty
func (f FieldErrors) Err() error {
	if !f.Any() {
		return nil
	}
	return f
}

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(f[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
