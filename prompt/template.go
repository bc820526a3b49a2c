package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/hupe1980/dialogmesh/core"
)

//go:embed default.tmpl
var defaultTemplate string

// DefaultTemplate returns the built-in prompt template text.
func DefaultTemplate() string { return defaultTemplate }

// Data is the value the template is executed with.
type Data struct {
	StateText     string
	FunctionsText string
	State         core.State
	Functions     core.Functions
}

// TemplateGenerator implements core.PromptGenerator on text/template.
// Output is not escaped.
type TemplateGenerator struct {
	tmpl *template.Template
}

var _ core.PromptGenerator = (*TemplateGenerator)(nil)

var funcs = template.FuncMap{
	"default": func(defaultVal any, val any) any {
		if val == nil || val == "" {
			return defaultVal
		}
		return val
	},
	"upper":        strings.ToUpper,
	"lower":        strings.ToLower,
	"stateLine":    stateLine,
	"functionLine": functionLine,
}

// NewTemplateGenerator parses text as a prompt template.
func NewTemplateGenerator(text string) (*TemplateGenerator, error) {
	tmpl, err := template.New("prompt").Funcs(funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &TemplateGenerator{tmpl: tmpl}, nil
}

// NewDefaultGenerator returns a generator for the built-in template.
func NewDefaultGenerator() *TemplateGenerator {
	g, err := NewTemplateGenerator(defaultTemplate)
	if err != nil {
		panic(err)
	}
	return g
}

// NewTemplateGeneratorFromFile reads and parses a template file.
func NewTemplateGeneratorFromFile(path string) (*TemplateGenerator, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return NewTemplateGenerator(string(raw))
}

// Render implements core.PromptGenerator.
func (g *TemplateGenerator) Render(state core.State, functions core.Functions) (string, error) {
	data := Data{
		StateText:     StateText(state),
		FunctionsText: FunctionsText(functions),
		State:         state,
		Functions:     functions,
	}
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// StateText renders one `name (description): value` line per entry, trimmed.
func StateText(state core.State) string {
	var b strings.Builder
	for _, name := range sortedNames(state) {
		b.WriteString(stateLine(name, state[name]))
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

// FunctionsText renders one line per action, each terminated by a newline.
func FunctionsText(functions core.Functions) string {
	var b strings.Builder
	for _, name := range sortedNames(functions) {
		b.WriteString(functionLine(name, functions[name]))
		b.WriteByte('\n')
	}
	return b.String()
}

func stateLine(name string, e core.StateEntry) string {
	return fmt.Sprintf("%s (%s): %s", name, e.Description, e.Value)
}

func functionLine(name string, d core.ActionDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", name, d.Description)
	for _, arg := range sortedNames(d.Arguments) {
		a := d.Arguments[arg]
		fmt.Fprintf(&b, " %s (MUST BE %s) (%s)=%s", arg, kindOf(a.Constraint), a.Description, ConstraintText(a.Constraint))
	}
	return b.String()
}

func kindOf(c core.Constraint) core.ArgumentKind {
	if c == nil {
		return core.KindNumber
	}
	return c.Kind()
}

// ConstraintText renders the prompt form of a constraint.
func ConstraintText(c core.Constraint) string {
	switch c := c.(type) {
	case core.NumberRange:
		return fmt.Sprintf("(min %s, max %s)", core.Number(c.Min), core.Number(c.Max))
	case core.NumberVariants:
		parts := make([]string, len(c.Variants))
		for i, v := range c.Variants {
			parts[i] = fmt.Sprintf("%s (%s)", core.Number(v.Value), v.Description)
		}
		return strings.Join(parts, "|")
	case core.StringNotEmpty:
		return `"any not empty string"`
	case core.StringVariants:
		parts := make([]string, len(c.Variants))
		for i, v := range c.Variants {
			parts[i] = fmt.Sprintf(`"%s" (%s)`, v.Value, v.Description)
		}
		return strings.Join(parts, "|")
	default:
		return "(any number)"
	}
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
