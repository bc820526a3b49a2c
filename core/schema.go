package core

import (
	"encoding/json"
	"fmt"
)

// Constraint type tags used by the capability schema wire format.
const (
	ConstraintNumberMinMax   = "number-min-max"
	ConstraintNumberVariants = "number-variants"
	ConstraintStringNotEmpty = "string-not-empty"
	ConstraintStringVariants = "string-variants"
)

// constraintWire is the discriminated JSON shape of a Constraint. The
// argumentType member repeats the kind implied by type and must agree with it.
type constraintWire struct {
	Type         string          `json:"type"`
	ArgumentType ArgumentKind    `json:"argumentType"`
	Min          *float64        `json:"min,omitempty"`
	Max          *float64        `json:"max,omitempty"`
	Variants     json.RawMessage `json:"variants,omitempty"`
}

type argumentWire struct {
	Description string          `json:"description"`
	Constraints *constraintWire `json:"constraints"`
}

// ConstraintType returns the wire tag of a constraint.
func ConstraintType(c Constraint) string {
	switch c.(type) {
	case NumberRange:
		return ConstraintNumberMinMax
	case NumberVariants:
		return ConstraintNumberVariants
	case StringNotEmpty:
		return ConstraintStringNotEmpty
	case StringVariants:
		return ConstraintStringVariants
	default:
		return ""
	}
}

// MarshalJSON encodes the descriptor in the capability schema wire format.
func (d ArgumentDescriptor) MarshalJSON() ([]byte, error) {
	if d.Constraint == nil {
		return nil, fmt.Errorf("argument descriptor has no constraint")
	}
	w := constraintWire{Type: ConstraintType(d.Constraint), ArgumentType: d.Constraint.Kind()}
	switch c := d.Constraint.(type) {
	case NumberRange:
		w.Min, w.Max = &c.Min, &c.Max
	case NumberVariants:
		raw, err := json.Marshal(nonNil(c.Variants))
		if err != nil {
			return nil, err
		}
		w.Variants = raw
	case StringVariants:
		raw, err := json.Marshal(nonNil(c.Variants))
		if err != nil {
			return nil, err
		}
		w.Variants = raw
	}
	return json.Marshal(argumentWire{Description: d.Description, Constraints: &w})
}

// UnmarshalJSON decodes the capability schema wire format. Unknown constraint
// types, an argumentType disagreeing with the type, and missing bounds or
// variants are rejected.
func (d *ArgumentDescriptor) UnmarshalJSON(data []byte) error {
	var aw argumentWire
	if err := json.Unmarshal(data, &aw); err != nil {
		return err
	}
	if aw.Constraints == nil {
		return fmt.Errorf("argument %q: missing constraints", aw.Description)
	}
	c, err := aw.Constraints.decode()
	if err != nil {
		return err
	}
	d.Description = aw.Description
	d.Constraint = c
	return nil
}

func (w *constraintWire) decode() (Constraint, error) {
	var c Constraint
	switch w.Type {
	case ConstraintNumberMinMax:
		if w.Min == nil || w.Max == nil {
			return nil, fmt.Errorf("constraint %s: min and max are required", w.Type)
		}
		c = NumberRange{Min: *w.Min, Max: *w.Max}
	case ConstraintNumberVariants:
		var vs []NumberVariant
		if err := decodeVariants(w, &vs); err != nil {
			return nil, err
		}
		c = NumberVariants{Variants: vs}
	case ConstraintStringNotEmpty:
		c = StringNotEmpty{}
	case ConstraintStringVariants:
		var vs []StringVariant
		if err := decodeVariants(w, &vs); err != nil {
			return nil, err
		}
		c = StringVariants{Variants: vs}
	default:
		return nil, fmt.Errorf("unknown constraint type %q", w.Type)
	}
	if w.ArgumentType != c.Kind() {
		return nil, fmt.Errorf("constraint %s: argumentType must be %q, got %q", w.Type, c.Kind(), w.ArgumentType)
	}
	return c, nil
}

func decodeVariants[T any](w *constraintWire, out *[]T) error {
	if len(w.Variants) == 0 {
		return fmt.Errorf("constraint %s: variants are required", w.Type)
	}
	if err := json.Unmarshal(w.Variants, out); err != nil {
		return fmt.Errorf("constraint %s: %w", w.Type, err)
	}
	if *out == nil {
		return fmt.Errorf("constraint %s: variants must be an array", w.Type)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// UnmarshalJSON decodes an action descriptor; a missing arguments member is
// treated as an action without arguments.
func (a *ActionDescriptor) UnmarshalJSON(data []byte) error {
	type plain ActionDescriptor
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Arguments == nil {
		p.Arguments = map[string]ArgumentDescriptor{}
	}
	*a = ActionDescriptor(p)
	return nil
}
