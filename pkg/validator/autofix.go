package validator

// AutoFix is a deterministic repair applied by ValidateDocument when
// autofix is requested.
type AutoFix struct {
	Index       int    `json:"index"`
	ComponentID string `json:"component_id,omitempty"`
	Path        string `json:"path"`
	Old         any    `json:"old"`
	New         any    `json:"new"`
	Reason      string `json:"reason"`
}
