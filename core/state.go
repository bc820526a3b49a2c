package core

// StateEntry is a single named fact about the world, rendered into the prompt.
type StateEntry struct {
	Description string `json:"description"`
	Value       string `json:"value"`
}

// State maps fact names to entries. Names are unique across providers.
type State map[string]StateEntry
