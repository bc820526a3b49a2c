package core

import (
	"context"
	"fmt"
)

// StateProvider contributes named facts to the prompt. It is queried once
// per turn and may fail.
type StateProvider interface {
	Name() string
	State(ctx context.Context, sess SessionContext) (State, error)
}

// FunctionProvider contributes callable actions. It is queried once per turn
// and may fail.
type FunctionProvider interface {
	Name() string
	Functions(ctx context.Context, sess SessionContext) (Functions, error)
}

// EffectProvider executes its actions as fire-and-forget effects.
type EffectProvider interface {
	FunctionProvider
	CallFunction(ctx context.Context, sess SessionContext, name string, args Arguments) error
}

// DirectiveProvider executes its actions synchronously, returning a
// Directive that becomes part of the turn result.
type DirectiveProvider interface {
	FunctionProvider
	CallDirective(ctx context.Context, sess SessionContext, name string, args Arguments) (Directive, error)
}

// DispatchMode selects how calls to a provider's actions are executed.
type DispatchMode int

const (
	// ModeEffect runs calls detached from the turn, optionally delayed.
	ModeEffect DispatchMode = iota
	// ModeDirective runs calls synchronously and returns their result.
	ModeDirective
)

// String returns the mode name used in logs.
func (m DispatchMode) String() string {
	switch m {
	case ModeEffect:
		return "effect"
	case ModeDirective:
		return "directive"
	default:
		return "unknown"
	}
}

// FunctionBinding is a function provider with its dispatch mode resolved at
// registration. Use BindEffect or BindDirective to construct one.
type FunctionBinding struct {
	provider  FunctionProvider
	mode      DispatchMode
	effect    func(ctx context.Context, sess SessionContext, name string, args Arguments) error
	directive func(ctx context.Context, sess SessionContext, name string, args Arguments) (Directive, error)
}

// BindEffect registers p as an effect provider.
func BindEffect(p EffectProvider) FunctionBinding {
	return FunctionBinding{provider: p, mode: ModeEffect, effect: p.CallFunction}
}

// BindDirective registers p as a directive provider.
func BindDirective(p DirectiveProvider) FunctionBinding {
	return FunctionBinding{provider: p, mode: ModeDirective, directive: p.CallDirective}
}

// Name returns the provider name.
func (b FunctionBinding) Name() string { return b.provider.Name() }

// Mode returns the dispatch mode resolved at registration.
func (b FunctionBinding) Mode() DispatchMode { return b.mode }

// Functions fetches the provider's action descriptors.
func (b FunctionBinding) Functions(ctx context.Context, sess SessionContext) (Functions, error) {
	return b.provider.Functions(ctx, sess)
}

// CallEffect invokes an effect action.
func (b FunctionBinding) CallEffect(ctx context.Context, sess SessionContext, name string, args Arguments) error {
	if b.mode != ModeEffect {
		return fmt.Errorf("%s: %w", b.Name(), ErrNotEffect)
	}
	if err := b.effect(ctx, sess, name, args); err != nil {
		return &ProviderError{Provider: b.Name(), Op: "call", Action: name, Err: err}
	}
	return nil
}

// CallDirective invokes a directive action.
func (b FunctionBinding) CallDirective(ctx context.Context, sess SessionContext, name string, args Arguments) (Directive, error) {
	if b.mode != ModeDirective {
		return Directive{}, fmt.Errorf("%s: %w", b.Name(), ErrNotDirective)
	}
	d, err := b.directive(ctx, sess, name, args)
	if err != nil {
		return Directive{}, &ProviderError{Provider: b.Name(), Op: "directive", Action: name, Err: err}
	}
	return d, nil
}

// PromptGenerator renders state and action inventory into a system prompt.
type PromptGenerator interface {
	Render(state State, functions Functions) (string, error)
}
