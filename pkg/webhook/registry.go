// Package webhook dispatches JSON requests to the external HTTP backends that
// fulfil voice-agent tools, and classifies every outcome into a Result.
package webhook

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Endpoint describes one backend: where it lives, how to authenticate, and how
// long a single call may take.
type Endpoint struct {
	Name    string
	BaseURL string
	APIKey  string // optional; sent as a bearer token when set
	Timeout time.Duration
}

// Registry maps logical backend names to their endpoints.
// It is immutable once built and safe for concurrent use.
type Registry struct {
	endpoints map[string]Endpoint
}

// NewRegistry validates and indexes the given endpoints.
func NewRegistry(endpoints ...Endpoint) (*Registry, error) {
	r := &Registry{endpoints: make(map[string]Endpoint, len(endpoints))}
	for _, ep := range endpoints {
		ep.Name = strings.TrimSpace(ep.Name)
		ep.BaseURL = strings.TrimRight(strings.TrimSpace(ep.BaseURL), "/")
		if ep.Name == "" {
			return nil, fmt.Errorf("webhook registry: endpoint name is required")
		}
		if ep.BaseURL == "" {
			return nil, fmt.Errorf("webhook registry: endpoint %q has no base URL", ep.Name)
		}
		if ep.Timeout <= 0 {
			return nil, fmt.Errorf("webhook registry: endpoint %q timeout must be positive", ep.Name)
		}
		if _, dup := r.endpoints[ep.Name]; dup {
			return nil, fmt.Errorf("webhook registry: duplicate endpoint %q", ep.Name)
		}
		r.endpoints[ep.Name] = ep
	}
	return r, nil
}

// Lookup returns the endpoint registered under name.
func (r *Registry) Lookup(name string) (Endpoint, bool) {
	ep, ok := r.endpoints[name]
	return ep, ok
}

// Names returns the registered endpoint names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// URL joins the endpoint base URL with a relative path. An empty path yields
// the base URL unchanged.
func (ep Endpoint) URL(path string) string {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return ep.BaseURL
	}
	return ep.BaseURL + "/" + path
}
