package core

// ArgumentKind is the primitive kind an argument is coerced to before its
// constraint is checked.
type ArgumentKind string

const (
	// KindNumber accepts numbers and numeric strings.
	KindNumber ArgumentKind = "number"
	// KindString accepts strings and stringified numbers.
	KindString ArgumentKind = "string"
)

// Constraint restricts the acceptable values of an action argument. The set
// of implementations is closed: NumberRange, NumberVariants, StringNotEmpty
// and StringVariants.
type Constraint interface {
	isConstraint()
	// Kind reports the primitive kind the constraint accepts.
	Kind() ArgumentKind
}

// NumberRange accepts numbers within [Min, Max] inclusive.
type NumberRange struct {
	Min float64
	Max float64
}

func (NumberRange) isConstraint() {}

// Kind implements Constraint.
func (NumberRange) Kind() ArgumentKind { return KindNumber }

// NumberVariant is an allowed numeric value with its meaning.
type NumberVariant struct {
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// NumberVariants accepts exactly one of the listed numbers.
type NumberVariants struct {
	Variants []NumberVariant
}

func (NumberVariants) isConstraint() {}

// Kind implements Constraint.
func (NumberVariants) Kind() ArgumentKind { return KindNumber }

// StringNotEmpty accepts any non-empty string.
type StringNotEmpty struct{}

func (StringNotEmpty) isConstraint() {}

// Kind implements Constraint.
func (StringNotEmpty) Kind() ArgumentKind { return KindString }

// StringVariant is an allowed string value with its meaning.
type StringVariant struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// StringVariants accepts exactly one of the listed strings.
type StringVariants struct {
	Variants []StringVariant
}

func (StringVariants) isConstraint() {}

// Kind implements Constraint.
func (StringVariants) Kind() ArgumentKind { return KindString }

// ArgumentDescriptor documents a single action argument and its constraint.
type ArgumentDescriptor struct {
	Description string
	Constraint  Constraint
}

// ActionDescriptor describes a callable action exposed to the completion engine.
type ActionDescriptor struct {
	Description string                        `json:"description"`
	Arguments   map[string]ArgumentDescriptor `json:"arguments"`
}

// Functions maps action names to their descriptors.
type Functions map[string]ActionDescriptor
