package entities

type Parameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolSpec describes a tool to the language model.
type ToolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

// RequiredParameters returns the names of the required parameters in declaration order.
func (t *ToolSpec) RequiredParameters() []string {
	required := make([]string, 0)
	for _, p := range t.Parameters {
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return required
}
