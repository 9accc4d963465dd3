package catalog

// Component is the serializable description of a registered component type.
type Component struct {
	Type         string         `json:"type"`
	Name         string         `json:"name"`
	Icon         string         `json:"icon,omitempty"`
	Category     string         `json:"category"`
	Props        []Prop         `json:"props"`
	DefaultProps map[string]any `json:"default_props,omitempty"`
}

// Prop describes one schema field.
type Prop struct {
	Name          string   `json:"name"`
	Label         string   `json:"label,omitempty"`
	Type          string   `json:"type"` // base kind, "array" elements are described by Fields or ItemType
	Hint          string   `json:"hint,omitempty"`
	Required      bool     `json:"required"`
	Default       any      `json:"default,omitempty"`
	Description   string   `json:"description,omitempty"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	AllowedValues []string `json:"allowed_values,omitempty"`
	ItemType      string   `json:"item_type,omitempty"`
	Fields        []Prop   `json:"fields,omitempty"`
}

// Category groups components for the palette.
type Category struct {
	Name       string   `json:"name"`
	Components []string `json:"components"`
}
