// Package decoder turns raw completion text into a core.StructuredResponse.
//
// Three interchangeable strategies are provided and selected by configuration:
//
//   - TokenDecoder: the whitespace token grammar
//     "call_function NAME k=1 ... CONTINUE_DIALOG free text"
//   - JSONDecoder: a JSON object {text, continue_dialog, function_calls}
//   - PlainDecoder: the whole answer is free text
//
// Decoders never fail. Malformed input is logged and yields a best-effort or
// empty response so that the turn still succeeds.
package decoder

import (
	"fmt"
	"strings"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/logging"
)

// Decoder interprets raw completion text.
type Decoder interface {
	Decode(raw string) core.StructuredResponse
}

// Format names a decoding strategy in configuration.
type Format string

const (
	// FormatFunctionCall selects the TokenDecoder.
	FormatFunctionCall Format = "function-call"
	// FormatToken is an alias of FormatFunctionCall.
	FormatToken Format = "token"
	// FormatJSON selects the JSONDecoder.
	FormatJSON Format = "json"
	// FormatPlain selects the PlainDecoder.
	FormatPlain Format = "plain"
)

// Options configures decoders.
type Options struct {
	// Logger receives decode warnings. Defaults to NoOp.
	Logger logging.Logger
}

func buildOptions(optFns []func(o *Options)) Options {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return opts
}

// New returns the decoder for the given format.
func New(format Format, optFns ...func(o *Options)) (Decoder, error) {
	switch Format(strings.ToLower(strings.TrimSpace(string(format)))) {
	case FormatFunctionCall, FormatToken, "":
		return NewTokenDecoder(optFns...), nil
	case FormatJSON:
		return NewJSONDecoder(optFns...), nil
	case FormatPlain:
		return NewPlainDecoder(), nil
	default:
		return nil, fmt.Errorf("unknown decoder format %q (valid: function-call, json, plain)", format)
	}
}

// PlainDecoder returns the raw text unchanged with no calls.
type PlainDecoder struct{}

// NewPlainDecoder creates a PlainDecoder.
func NewPlainDecoder() *PlainDecoder { return &PlainDecoder{} }

// Decode implements Decoder.
func (PlainDecoder) Decode(raw string) core.StructuredResponse {
	return core.StructuredResponse{Text: raw, Calls: []core.ActionCall{}}
}

func emptyResponse() core.StructuredResponse {
	return core.StructuredResponse{Text: "", RequireMoreInput: false, Calls: []core.ActionCall{}}
}
