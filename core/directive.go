package core

import (
	"encoding/json"
	"fmt"
)

// Directive is a provider specific immediate-effect value returned to the
// caller as part of the turn result (e.g. a device volume change).
//
// It serialises flat: Directive{Type: "soundSetLevel", Fields: {"newLevel": 5}}
// becomes {"type":"soundSetLevel","newLevel":5}.
type Directive struct {
	Type   string
	Fields map[string]any
}

// NewDirective constructs a directive of the given type with optional fields.
func NewDirective(typ string, fields map[string]any) Directive {
	return Directive{Type: typ, Fields: fields}
}

// MarshalJSON implements json.Marshaler.
func (d Directive) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		out[k] = v
	}
	out["type"] = d.Type
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Directive) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	typ, ok := raw["type"].(string)
	if !ok || typ == "" {
		return fmt.Errorf("directive: missing type")
	}
	delete(raw, "type")
	d.Type = typ
	d.Fields = nil
	if len(raw) > 0 {
		d.Fields = raw
	}
	return nil
}
