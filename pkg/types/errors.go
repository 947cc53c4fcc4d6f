package types

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ──────────────────────────────────────────────────────────────────────────────
// Validation error (caller-supplied arguments, detected before any network call)
// ──────────────────────────────────────────────────────────────────────────────

// ValidationError names the argument keys that were missing or unusable.
// Message is safe to hand back to the agent verbatim.
type ValidationError struct {
	Fields  []string `json:"fields,omitempty"`
	Message string   `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MissingFields builds a ValidationError for absent required arguments.
// keys are the argument names; labels are the spoken names used in the message
// and must line up with keys.
func MissingFields(keys, labels []string) *ValidationError {
	return &ValidationError{
		Fields:  keys,
		Message: "missing required fields: " + strings.Join(labels, ", "),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// APIError: structured error returned to callers
// ──────────────────────────────────────────────────────────────────────────────

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Details   any    `json:"details,omitempty"`
	HTTPCode  int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WriteJSON writes the error as JSON to the response writer.
func (e *APIError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPCode)
	_ = json.NewEncoder(w).Encode(e)
}

// ──────────────────────────────────────────────────────────────────────────────
// Common error constructors
// ──────────────────────────────────────────────────────────────────────────────

func ErrBadRequest(msg string) *APIError {
	return &APIError{Code: "BAD_REQUEST", Message: msg, HTTPCode: http.StatusBadRequest}
}

// ErrValidation carries the offending field names in Details when err is a
// *ValidationError.
func ErrValidation(err error) *APIError {
	apiErr := &APIError{Code: "VALIDATION_ERROR", Message: err.Error(), HTTPCode: http.StatusUnprocessableEntity}
	if ve, ok := err.(*ValidationError); ok && len(ve.Fields) > 0 {
		apiErr.Details = map[string]any{"fields": ve.Fields}
	}
	return apiErr
}

func ErrUnauthorized(msg string) *APIError {
	return &APIError{Code: "UNAUTHORIZED", Message: msg, HTTPCode: http.StatusUnauthorized}
}

func ErrNotFound(msg string) *APIError {
	return &APIError{Code: "NOT_FOUND", Message: msg, HTTPCode: http.StatusNotFound}
}

func ErrInternal(msg string) *APIError {
	return &APIError{Code: "INTERNAL_ERROR", Message: msg, Retryable: true, HTTPCode: http.StatusInternalServerError}
}

func ErrRateLimited() *APIError {
	return &APIError{Code: "RATE_LIMITED", Message: "too many requests", Retryable: true, HTTPCode: http.StatusTooManyRequests}
}

func ErrUnknownTool(name string) *APIError {
	return &APIError{Code: "UNKNOWN_TOOL", Message: fmt.Sprintf("tool %q is not registered", name), HTTPCode: http.StatusNotFound}
}
