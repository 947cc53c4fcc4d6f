package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bturcanu/voicehook/pkg/types"
	"github.com/xeipuuv/gojsonschema"
)

// ErrUnknownTool is returned by Invoke for a name with no registered tool.
var ErrUnknownTool = errors.New("unknown tool")

// Args holds the decoded arguments of one tool call.
type Args map[string]any

// String returns the trimmed string argument under key, or "" when absent.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return strings.TrimSpace(s)
}

// Handler runs a tool. The only errors it returns are *types.ValidationError;
// backend failures are turned into normal results by the adapter.
type Handler func(ctx context.Context, args Args) (any, error)

// Tool pairs a contract with its implementation.
type Tool struct {
	Contract Contract
	Handler  Handler
}

type entry struct {
	tool   Tool
	schema *gojsonschema.Schema
}

// Registry is the name → tool mapping consumed by the agent transport.
// It is read-only after NewRegistry returns.
type Registry struct {
	tools map[string]entry
	order []string
}

// NewRegistry compiles each tool's schema and indexes tools by name,
// keeping registration order for Definitions.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]entry, len(tools))}
	for _, t := range tools {
		name := t.Contract.Name
		if name == "" {
			return nil, fmt.Errorf("tool registry: tool name is required")
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool registry: tool %q has no handler", name)
		}
		if _, dup := r.tools[name]; dup {
			return nil, fmt.Errorf("tool registry: duplicate tool %q", name)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(t.Contract.Schema()))
		if err != nil {
			return nil, fmt.Errorf("tool registry: compile schema for %q: %w", name, err)
		}
		r.tools[name] = entry{tool: t, schema: schema}
		r.order = append(r.order, name)
	}
	return r, nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	e, ok := r.tools[name]
	return e.tool, ok
}

// Names lists tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Definitions returns every contract in registration order.
func (r *Registry) Definitions() []Contract {
	out := make([]Contract, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].tool.Contract)
	}
	return out
}

// Invoke decodes raw JSON arguments, checks their types against the tool's
// schema and runs the handler. Required-ness is not enforced here: adapters
// report every missing field by name themselves.
func (r *Registry) Invoke(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	e, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	if err := checkArgs(e.schema, raw); err != nil {
		return nil, err
	}

	var args Args
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, &types.ValidationError{Message: "arguments must be a JSON object"}
	}
	return e.tool.Handler(ctx, args)
}

func checkArgs(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &types.ValidationError{Message: "arguments must be a JSON object"}
	}
	if result.Valid() {
		return nil
	}

	var fields, problems []string
	for _, re := range result.Errors() {
		if re.Type() == "required" {
			continue
		}
		fields = append(fields, re.Field())
		problems = append(problems, re.String())
	}
	if len(problems) == 0 {
		return nil
	}
	return &types.ValidationError{
		Fields:  fields,
		Message: "invalid arguments: " + strings.Join(problems, "; "),
	}
}
