// Package types defines the wire shapes shared by the tool gateway and its clients.
package types

import (
	"encoding/json"
	"strings"
)

// ──────────────────────────────────────────────────────────────────────────────
// Limits
// ──────────────────────────────────────────────────────────────────────────────

const (
	MaxArgsBytes     = 64 * 1024 // 64 KB
	MaxToolNameBytes = 64
)

// NormalizeToolName lowercases and trims a tool name taken from a URL or a
// function-call event.
func NormalizeToolName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateToolName rejects names that cannot belong to any registered tool.
func ValidateToolName(name string) error {
	if name == "" {
		return &ValidationError{Fields: []string{"tool"}, Message: "tool name is required"}
	}
	if len(name) > MaxToolNameBytes {
		return &ValidationError{Fields: []string{"tool"}, Message: "tool name is too long"}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// API responses
// ──────────────────────────────────────────────────────────────────────────────

// ToolCallResponse is returned for every completed tool invocation, whether the
// result came from a live backend or a local fallback.
type ToolCallResponse struct {
	CallID     string          `json:"call_id"`
	Tool       string          `json:"tool"`
	Result     json.RawMessage `json:"result"`
	DurationMS int64           `json:"duration_ms"`
}

// ToolListResponse lists the published tool definitions.
type ToolListResponse struct {
	Tools json.RawMessage `json:"tools"`
}

// EndpointHealth is one row of GET /v1/endpoints/health.
type EndpointHealth struct {
	Endpoint   string `json:"endpoint"`
	Status     string `json:"status"` // "connected" | "error"
	Failure    string `json:"failure,omitempty"`
	Detail     string `json:"detail,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// EndpointHealthResponse is the body of GET /v1/endpoints/health.
type EndpointHealthResponse struct {
	Healthy   bool             `json:"healthy"`
	Endpoints []EndpointHealth `json:"endpoints"`
}
