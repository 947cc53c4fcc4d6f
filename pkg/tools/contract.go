package tools

import "encoding/json"

// Param describes one named tool argument.
type Param struct {
	Name        string
	Type        string // JSON Schema type, e.g. "string"
	Description string
	Required    bool
	Enum        []string
}

// Contract is the agent-facing description of a tool. The calling agent's
// function definitions are generated from it, so field names and required-ness
// are part of the wire contract.
type Contract struct {
	Name        string
	Description string
	Parameters  []Param
}

// Schema renders the parameter list as a JSON Schema object.
func (c Contract) Schema() map[string]any {
	props := make(map[string]any, len(c.Parameters))
	required := []string{}
	for _, p := range c.Parameters {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// MarshalJSON emits the {name, description, parameters} function-definition form.
func (c Contract) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	}{c.Name, c.Description, c.Schema()})
}
