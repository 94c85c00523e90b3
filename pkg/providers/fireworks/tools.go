package fireworks

import "encoding/json"

// ParamType is a JSON-schema primitive type for tool parameters.
type ParamType string

const (
	Integer ParamType = "integer"
	Number  ParamType = "number"
	String  ParamType = "string"
	Boolean ParamType = "boolean"
	Object  ParamType = "object"
	Array   ParamType = "array"
)

// Param describes one function parameter.
type Param struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
}

// ToolDef is a tool declaration in the chat-completions function-calling
// shape.
type ToolDef struct {
	Type     string   `json:"type"`
	Function ToolFunc `json:"function"`
}

// ToolFunc is the function part of a tool declaration.
type ToolFunc struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

// NewTool wraps a function declaration as a ToolDef.
func NewTool(name, description string, parameters json.RawMessage) ToolDef {
	if parameters == nil {
		parameters = json.RawMessage(`{"type":"object"}`)
	}

	return ToolDef{
		Type: "function",
		Function: ToolFunc{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// Schema builds a JSON-schema object for the given parameters, suitable as
// the Parameters of a ToolFunc.
func Schema(params ...Param) json.RawMessage {
	properties := make(map[string]any, len(params))
	var required []string

	for _, p := range params {
		def := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			def["description"] = p.Description
		}

		properties[p.Name] = def
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		// map[string]any of plain values cannot fail to marshal.
		return json.RawMessage(`{"type":"object"}`)
	}

	return raw
}
