package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/dialogmesh/core"
)

type stateFunc struct {
	name string
	fn   func(ctx context.Context, sess core.SessionContext) (core.State, error)
}

func (s stateFunc) Name() string { return s.name }

func (s stateFunc) State(ctx context.Context, sess core.SessionContext) (core.State, error) {
	return s.fn(ctx, sess)
}

// StateFunc adapts fn into a core.StateProvider.
func StateFunc(name string, fn func(ctx context.Context, sess core.SessionContext) (core.State, error)) core.StateProvider {
	return stateFunc{name: name, fn: fn}
}

// StaticState returns a provider that always reports st.
func StaticState(name string, st core.State) core.StateProvider {
	return StateFunc(name, func(context.Context, core.SessionContext) (core.State, error) { return st, nil })
}

// FailingState returns a provider that always fails with err.
func FailingState(name string, err error) core.StateProvider {
	return StateFunc(name, func(context.Context, core.SessionContext) (core.State, error) { return nil, err })
}

// Call records one invocation received by a stub provider.
type Call struct {
	Session core.SessionContext
	Name    string
	Args    core.Arguments
}

// StubEffectProvider is a core.EffectProvider with a fixed inventory that
// records every call.
type StubEffectProvider struct {
	name  string
	fns   core.Functions
	mu    sync.Mutex
	calls []Call
	// Err, when set, is returned from every call.
	Err error
	// OnCall, when set, runs before the call is recorded.
	OnCall func(ctx context.Context, name string)
}

// NewStubEffectProvider creates a StubEffectProvider.
func NewStubEffectProvider(name string, fns core.Functions) *StubEffectProvider {
	return &StubEffectProvider{name: name, fns: fns}
}

// Name implements core.FunctionProvider.
func (p *StubEffectProvider) Name() string { return p.name }

// Functions implements core.FunctionProvider.
func (p *StubEffectProvider) Functions(context.Context, core.SessionContext) (core.Functions, error) {
	return p.fns, nil
}

// CallFunction implements core.EffectProvider.
func (p *StubEffectProvider) CallFunction(ctx context.Context, sess core.SessionContext, name string, args core.Arguments) error {
	if p.OnCall != nil {
		p.OnCall(ctx, name)
	}
	p.mu.Lock()
	p.calls = append(p.calls, Call{Session: sess, Name: name, Args: args})
	p.mu.Unlock()
	return p.Err
}

// Calls returns a snapshot of the recorded calls.
func (p *StubEffectProvider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// StubDirectiveProvider is a core.DirectiveProvider answering every call with
// a directive whose type is the action name.
type StubDirectiveProvider struct {
	name string
	fns  core.Functions
	// Fail lists action names that return an error instead.
	Fail map[string]error
}

// NewStubDirectiveProvider creates a StubDirectiveProvider.
func NewStubDirectiveProvider(name string, fns core.Functions) *StubDirectiveProvider {
	return &StubDirectiveProvider{name: name, fns: fns}
}

// Name implements core.FunctionProvider.
func (p *StubDirectiveProvider) Name() string { return p.name }

// Functions implements core.FunctionProvider.
func (p *StubDirectiveProvider) Functions(context.Context, core.SessionContext) (core.Functions, error) {
	return p.fns, nil
}

// CallDirective implements core.DirectiveProvider.
func (p *StubDirectiveProvider) CallDirective(_ context.Context, _ core.SessionContext, name string, args core.Arguments) (core.Directive, error) {
	if err, ok := p.Fail[name]; ok {
		return core.Directive{}, err
	}
	fields := make(map[string]any, len(args))
	for k, v := range args {
		fields[k] = v
	}
	return core.NewDirective(name, fields), nil
}

// NoArgs is an action descriptor without arguments.
func NoArgs(description string) core.ActionDescriptor {
	return core.ActionDescriptor{Description: description, Arguments: map[string]core.ArgumentDescriptor{}}
}
