package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a loosely typed call argument. Concrete value types implement the
// unexported isValue marker enabling a closed set: Number or Text.
type Value interface {
	isValue()
	// Kind reports the primitive kind carried by the value.
	Kind() ArgumentKind
}

// Number is a numeric argument value.
type Number float64

// isValue implements the Value interface for Number.
func (Number) isValue() {}

// Kind implements Value.
func (Number) Kind() ArgumentKind { return KindNumber }

// String formats the number in its shortest decimal form ("5", "2.5").
func (n Number) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }

// Text is a textual argument value.
type Text string

// isValue implements the Value interface for Text.
func (Text) isValue() {}

// Kind implements Value.
func (Text) Kind() ArgumentKind { return KindString }

// String returns the text unchanged.
func (t Text) String() string { return string(t) }

// Arguments maps argument names to values.
type Arguments map[string]Value

// Clone returns a shallow copy of the arguments.
func (a Arguments) Clone() Arguments {
	out := make(Arguments, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// UnmarshalJSON accepts an object whose members are JSON numbers or strings.
// Any other member kind is rejected.
func (a *Arguments) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("arguments must be an object")
	}
	out := make(Arguments, len(raw))
	for name, msg := range raw {
		v, err := decodeValue(msg)
		if err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
		out[name] = v
	}
	*a = out
	return nil
}

func decodeValue(msg json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return Text(s), nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, err
		}
		return Number(f), nil
	default:
		return nil, fmt.Errorf("value must be a number or a string, got %s", string(trimmed))
	}
}
