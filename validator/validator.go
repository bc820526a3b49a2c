// Package validator checks decoded action call arguments against the
// declarative constraint schema of the targeted action.
//
// Validation is all-or-nothing: the argument name set must equal the
// descriptor's set, every argument is coerced to its constraint's primitive
// kind, and every coerced value must satisfy its constraint.
package validator

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/hupe1980/dialogmesh/core"
)

// ValidationError represents an argument validation failure with detailed information.
type ValidationError struct {
	Field   string     `json:"field"`   // Argument that failed validation
	Value   core.Value `json:"value"`   // Value that was provided
	Message string     `json:"message"` // Human-readable error message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error for argument '%s': %s", e.Field, e.Message)
}

// Unwrap lets callers match core.ErrInvalidArguments.
func (e *ValidationError) Unwrap() error { return core.ErrInvalidArguments }

// Validate checks args against desc and returns the arguments coerced to the
// primitive kind each constraint declares.
func Validate(desc core.ActionDescriptor, args core.Arguments) (core.Arguments, error) {
	if err := checkNames(desc, args); err != nil {
		return nil, err
	}

	coerced := make(core.Arguments, len(args))
	for _, name := range sortedNames(desc.Arguments) {
		arg := desc.Arguments[name]
		value := args[name]
		if arg.Constraint == nil {
			return nil, &ValidationError{Field: name, Value: value, Message: "argument has no constraint"}
		}
		v, err := coerce(value, arg.Constraint.Kind())
		if err != nil {
			return nil, &ValidationError{Field: name, Value: value, Message: err.Error()}
		}
		if err := satisfies(v, arg.Constraint); err != nil {
			return nil, &ValidationError{Field: name, Value: value, Message: err.Error()}
		}
		coerced[name] = v
	}
	return coerced, nil
}

// Valid reports whether args satisfy desc.
func Valid(desc core.ActionDescriptor, args core.Arguments) bool {
	_, err := Validate(desc, args)
	return err == nil
}

func checkNames(desc core.ActionDescriptor, args core.Arguments) error {
	if len(args) != len(desc.Arguments) {
		return &ValidationError{Message: fmt.Sprintf("expected %d arguments (%s), got %d (%s)",
			len(desc.Arguments), strings.Join(sortedNames(desc.Arguments), ","),
			len(args), strings.Join(sortedNames(args), ","))}
	}
	for name := range args {
		if _, ok := desc.Arguments[name]; !ok {
			return &ValidationError{Field: name, Value: args[name], Message: "unexpected argument"}
		}
	}
	return nil
}

// coerce converts v to the requested kind. Numeric strings are parsed
// strictly; numbers are stringified in their shortest form.
func coerce(v core.Value, kind core.ArgumentKind) (core.Value, error) {
	switch kind {
	case core.KindNumber:
		switch tv := v.(type) {
		case core.Number:
			return tv, nil
		case core.Text:
			f, err := strconv.ParseFloat(strings.TrimSpace(string(tv)), 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as number", string(tv))
			}
			return core.Number(f), nil
		}
	case core.KindString:
		switch tv := v.(type) {
		case core.Text:
			return tv, nil
		case core.Number:
			return core.Text(tv.String()), nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %T to %s", v, kind)
}

func satisfies(v core.Value, c core.Constraint) error {
	switch tc := c.(type) {
	case core.NumberRange:
		n := float64(v.(core.Number))
		if !(n >= tc.Min && n <= tc.Max) {
			return fmt.Errorf("%v is outside [%v, %v]", n, tc.Min, tc.Max)
		}
	case core.NumberVariants:
		n := float64(v.(core.Number))
		if !slices.ContainsFunc(tc.Variants, func(nv core.NumberVariant) bool { return nv.Value == n }) {
			return fmt.Errorf("%v is not an allowed value", n)
		}
	case core.StringNotEmpty:
		if v.(core.Text) == "" {
			return fmt.Errorf("value must not be empty")
		}
	case core.StringVariants:
		s := string(v.(core.Text))
		if !slices.ContainsFunc(tc.Variants, func(sv core.StringVariant) bool { return sv.Value == s }) {
			return fmt.Errorf("%q is not an allowed value", s)
		}
	default:
		return fmt.Errorf("unsupported constraint %T", c)
	}
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
