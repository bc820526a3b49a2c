// Package model defines the provider-agnostic completion engine used by the
// dialogue processor.
//
// A completion receives the rendered system prompt (Instructions) and the
// ordered conversation history ending in the current user utterance, and
// returns the raw answer text of the first choice. Vendor adapters live in
// the openai and anthropic subpackages; MockModel serves tests and examples.
package model
