package webhook

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrUnknownEndpoint is wrapped by the Failure returned for a request naming an
// endpoint that is not in the registry.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// FailureKind classifies why a dispatch did not succeed.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureTransport FailureKind = "transport_error"
	FailureHTTP      FailureKind = "http_error"
	FailureMalformed FailureKind = "malformed_response"
)

// Request is one outbound call. It is built per tool invocation and never kept.
type Request struct {
	Endpoint string
	Path     string
	Method   string // defaults to POST
	Body     any    // JSON-encoded when non-nil
	Query    url.Values
}

// Failure describes an unsuccessful dispatch.
type Failure struct {
	Kind   FailureKind
	Status int    // set for FailureHTTP
	Detail string // human-readable cause; may contain backend text, never shown to end users
	Body   any    // parsed JSON or raw text of a non-2xx response
	Err    error
}

func (f *Failure) Error() string {
	if f.Kind == FailureHTTP {
		return fmt.Sprintf("webhook %s (%d): %s", f.Kind, f.Status, f.Detail)
	}
	return fmt.Sprintf("webhook %s: %s", f.Kind, f.Detail)
}

func (f *Failure) Unwrap() error { return f.Err }

// Result is the outcome of a dispatch. Exactly one of Body (with StatusCode) or
// Failure is meaningful: Failure is nil on success.
type Result struct {
	StatusCode int
	Body       any // decoded JSON object ([]any or map[string]any)
	Failure    *Failure
}

// OK reports whether the dispatch succeeded.
func (r Result) OK() bool { return r.Failure == nil }

// Object returns the body as a JSON object, if it is one.
func (r Result) Object() (map[string]any, bool) {
	m, ok := r.Body.(map[string]any)
	return m, ok
}

func success(status int, body any) Result {
	return Result{StatusCode: status, Body: body}
}

func failure(f *Failure) Result {
	return Result{StatusCode: f.Status, Failure: f}
}
