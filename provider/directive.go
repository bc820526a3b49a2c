package provider

import (
	"context"
	"fmt"

	"github.com/hupe1980/dialogmesh/core"
)

// DirectiveFunc is a synchronous action implemented in process.
type DirectiveFunc struct {
	Descriptor core.ActionDescriptor
	// Call receives arguments already validated and coerced against Descriptor.
	Call func(ctx context.Context, sess core.SessionContext, args core.Arguments) (core.Directive, error)
}

// DirectiveProvider serves a fixed set of directive functions.
type DirectiveProvider struct {
	name  string
	funcs map[string]DirectiveFunc
}

// NewDirectiveProvider creates a DirectiveProvider. The map is copied.
func NewDirectiveProvider(name string, funcs map[string]DirectiveFunc) *DirectiveProvider {
	cp := make(map[string]DirectiveFunc, len(funcs))
	for k, v := range funcs {
		cp[k] = v
	}
	return &DirectiveProvider{name: name, funcs: cp}
}

// Name implements core.FunctionProvider.
func (p *DirectiveProvider) Name() string { return p.name }

// Functions implements core.FunctionProvider.
func (p *DirectiveProvider) Functions(context.Context, core.SessionContext) (core.Functions, error) {
	fns := make(core.Functions, len(p.funcs))
	for name, fn := range p.funcs {
		fns[name] = fn.Descriptor
	}
	return fns, nil
}

// CallDirective implements core.DirectiveProvider.
func (p *DirectiveProvider) CallDirective(ctx context.Context, sess core.SessionContext, name string, args core.Arguments) (core.Directive, error) {
	fn, ok := p.funcs[name]
	if !ok {
		return core.Directive{}, fmt.Errorf("%w: %s", core.ErrUnknownAction, name)
	}
	return fn.Call(ctx, sess, args)
}
