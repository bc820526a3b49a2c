package testutil

import "github.com/hupe1980/dialogmesh/core"

// RequestBuilder provides a fluent helper for constructing turn requests.
// Defaults: adult male caller, no session id.
type RequestBuilder struct {
	req core.Request
}

// NewRequestBuilder creates a builder for a request carrying text.
func NewRequestBuilder(text string) *RequestBuilder {
	return &RequestBuilder{req: core.Request{
		Text:     text,
		Biometry: core.Biometry{AgeClass: "adult", GenderClass: "male"},
	}}
}

// Session sets the session id (chainable).
func (b *RequestBuilder) Session(id string) *RequestBuilder { b.req.SessionID = id; return b }

// Age sets the age class (chainable).
func (b *RequestBuilder) Age(age string) *RequestBuilder { b.req.Biometry.AgeClass = age; return b }

// Gender sets the gender class (chainable).
func (b *RequestBuilder) Gender(g string) *RequestBuilder { b.req.Biometry.GenderClass = g; return b }

// Build returns the request.
func (b *RequestBuilder) Build() core.Request { return b.req }
