package decoder

import (
	"strconv"
	"strings"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/logging"
)

const (
	callToken     = "call_function"
	continueToken = "CONTINUE_DIALOG"
)

// TokenDecoder parses the whitespace token grammar:
//
//	(call_function NAME (key=integer)*)* [CONTINUE_DIALOG] free text...
//
// Calls are only recognised at the start of the answer. The first token that
// neither starts a call nor is a parameter of the current call ends the call
// run; if that token is CONTINUE_DIALOG it is consumed and sets
// RequireMoreInput. The remaining tokens are joined by single spaces.
type TokenDecoder struct {
	logger logging.Logger
}

// NewTokenDecoder creates a TokenDecoder.
func NewTokenDecoder(optFns ...func(o *Options)) *TokenDecoder {
	opts := buildOptions(optFns)
	return &TokenDecoder{logger: opts.Logger}
}

// Decode implements Decoder.
func (d *TokenDecoder) Decode(raw string) core.StructuredResponse {
	parts := strings.Fields(raw)
	res := core.StructuredResponse{Calls: []core.ActionCall{}}

	i := 0
	for i < len(parts) {
		if parts[i] == callToken {
			if i+1 >= len(parts) {
				d.logger.Warn("decoder.token.dangling_call", "position", i)
				break
			}
			call := core.ActionCall{Name: parts[i+1], Parameters: core.Arguments{}}
			i += 2
			for i < len(parts) {
				name, value, ok := parseParameter(parts[i])
				if !ok {
					break
				}
				if _, dup := call.Parameters[name]; dup {
					d.logger.Warn("decoder.token.duplicate_parameter", "action", call.Name, "parameter", name)
				} else {
					call.Parameters[name] = core.Number(value)
				}
				i++
			}
			res.Calls = append(res.Calls, call)
			continue
		}
		if parts[i] == continueToken {
			res.RequireMoreInput = true
			i++
		}
		break
	}

	res.Text = strings.Join(parts[i:], " ")
	return res
}

// parseParameter accepts tokens of the form name=integer.
func parseParameter(tok string) (string, int64, bool) {
	name, value, found := strings.Cut(tok, "=")
	if !found || name == "" || strings.Contains(value, "=") {
		return "", 0, false
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return "", 0, false
	}
	return name, n, true
}
