package core

import "time"

// ActionCall is a decoded request to invoke an action. It is turn-scoped.
type ActionCall struct {
	Name       string    `json:"name"`
	Parameters Arguments `json:"parameters"`
	// Schedule delays an effect call; zero means run immediately. Directive
	// calls ignore it.
	Schedule time.Duration `json:"schedule,omitempty"`
}

// StructuredResponse is the interpreted form of a raw completion.
type StructuredResponse struct {
	Text             string       `json:"text"`
	RequireMoreInput bool         `json:"requireMoreInput"`
	Calls            []ActionCall `json:"calls"`
}

// BoundAction pairs an action descriptor with the provider binding that owns it.
type BoundAction struct {
	Descriptor ActionDescriptor
	Binding    FunctionBinding
}

// Actions is the merged, turn-scoped action inventory.
type Actions map[string]BoundAction

// Functions projects the inventory onto plain descriptors (for prompt rendering).
func (a Actions) Functions() Functions {
	out := make(Functions, len(a))
	for name, act := range a {
		out[name] = act.Descriptor
	}
	return out
}
