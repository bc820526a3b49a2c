package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAction is reported when a decoded call names no known action.
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidArguments is reported when call arguments violate the schema.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrDuplicateKey is reported when a provider repeats an already merged name.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotDirective is returned when a directive call targets an effect provider.
	ErrNotDirective = errors.New("provider is not directive capable")
	// ErrNotEffect is returned when an effect call targets a directive provider.
	ErrNotEffect = errors.New("provider does not accept effect calls")
)

// ProviderError represents a failure reported by a state or function provider.
type ProviderError struct {
	Provider string `json:"provider"`         // Name of the provider that failed
	Op       string `json:"op"`               // fetch, call or directive
	Action   string `json:"action,omitempty"` // Action name for call failures
	Err      error  `json:"-"`
}

func (e *ProviderError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("provider %s %s %s: %v", e.Provider, e.Op, e.Action, e.Err)
	}
	return fmt.Sprintf("provider %s %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error { return e.Err }
