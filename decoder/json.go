package decoder

import (
	"fmt"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/logging"
	"github.com/tidwall/gjson"
)

// JSONDecoder parses answers of the shape
//
//	{"text": "...", "continue_dialog": false,
//	 "function_calls": [{"name": "...", "args": {"k": 1}, "schedule": "1m 30s"}]}
//
// Every member except schedule is required and must carry the declared JSON
// type; argument values must be numbers or strings. Any mismatch yields the
// empty response.
type JSONDecoder struct {
	logger logging.Logger
}

// NewJSONDecoder creates a JSONDecoder.
func NewJSONDecoder(optFns ...func(o *Options)) *JSONDecoder {
	opts := buildOptions(optFns)
	return &JSONDecoder{logger: opts.Logger}
}

// Decode implements Decoder.
func (d *JSONDecoder) Decode(raw string) core.StructuredResponse {
	res, err := d.decode(raw)
	if err != nil {
		d.logger.Warn("decoder.json.invalid", "error", err.Error())
		return emptyResponse()
	}
	return res
}

func (d *JSONDecoder) decode(raw string) (core.StructuredResponse, error) {
	if !gjson.Valid(raw) {
		return core.StructuredResponse{}, fmt.Errorf("malformed JSON")
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return core.StructuredResponse{}, fmt.Errorf("top level value must be an object")
	}

	text := root.Get("text")
	if text.Type != gjson.String {
		return core.StructuredResponse{}, fmt.Errorf("text must be a string")
	}
	cont := root.Get("continue_dialog")
	if !cont.IsBool() {
		return core.StructuredResponse{}, fmt.Errorf("continue_dialog must be a boolean")
	}
	fcs := root.Get("function_calls")
	if !fcs.IsArray() {
		return core.StructuredResponse{}, fmt.Errorf("function_calls must be an array")
	}

	res := core.StructuredResponse{Text: text.Str, RequireMoreInput: cont.Bool(), Calls: []core.ActionCall{}}
	for i, fc := range fcs.Array() {
		call, err := d.decodeCall(fc)
		if err != nil {
			return core.StructuredResponse{}, fmt.Errorf("function_calls[%d]: %w", i, err)
		}
		res.Calls = append(res.Calls, call)
	}
	return res, nil
}

func (d *JSONDecoder) decodeCall(fc gjson.Result) (core.ActionCall, error) {
	if !fc.IsObject() {
		return core.ActionCall{}, fmt.Errorf("must be an object")
	}
	name := fc.Get("name")
	if name.Type != gjson.String {
		return core.ActionCall{}, fmt.Errorf("name must be a string")
	}
	args := fc.Get("args")
	if !args.IsObject() {
		return core.ActionCall{}, fmt.Errorf("args must be an object")
	}

	call := core.ActionCall{Name: name.Str, Parameters: core.Arguments{}}
	var argErr error
	args.ForEach(func(key, value gjson.Result) bool {
		if _, dup := call.Parameters[key.Str]; dup {
			d.logger.Warn("decoder.json.duplicate_parameter", "action", call.Name, "parameter", key.Str)
		}
		switch value.Type {
		case gjson.Number:
			call.Parameters[key.Str] = core.Number(value.Num)
		case gjson.String:
			call.Parameters[key.Str] = core.Text(value.Str)
		default:
			argErr = fmt.Errorf("args.%s must be a number or a string", key.Str)
			return false
		}
		return true
	})
	if argErr != nil {
		return core.ActionCall{}, argErr
	}

	if schedule := fc.Get("schedule"); schedule.Exists() {
		if schedule.Type != gjson.String {
			return core.ActionCall{}, fmt.Errorf("schedule must be a string")
		}
		call.Schedule = ParseSchedule(schedule.Str, d.logger)
	}
	return call, nil
}
