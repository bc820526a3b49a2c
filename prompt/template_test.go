package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateText(t *testing.T) {
	st := core.State{
		"weather":   {Description: "weather outside", Value: "sunny"},
		"date_time": {Description: "now", Value: "01-02-2024 10:00:00"},
	}
	assert.Equal(t, "date_time (now): 01-02-2024 10:00:00\nweather (weather outside): sunny", StateText(st))
	assert.Equal(t, "", StateText(nil))
}

func TestFunctionsText(t *testing.T) {
	fns := core.Functions{
		"set_volume": {
			Description: "sets volume",
			Arguments: map[string]core.ArgumentDescriptor{
				"level": {Description: "volume level", Constraint: core.NumberRange{Min: 1, Max: 10}},
			},
		},
		"louder": {Description: "louder", Arguments: map[string]core.ArgumentDescriptor{}},
	}

	want := "louder (louder)\n" +
		"set_volume (sets volume) level (MUST BE number) (volume level)=(min 1, max 10)\n"
	assert.Equal(t, want, FunctionsText(fns))
}

func TestConstraintText(t *testing.T) {
	cases := []struct {
		name string
		c    core.Constraint
		want string
	}{
		{"range", core.NumberRange{Min: 0.5, Max: 3}, "(min 0.5, max 3)"},
		{"number variants", core.NumberVariants{Variants: []core.NumberVariant{{Value: 1, Description: "one"}, {Value: 2, Description: "two"}}}, "1 (one)|2 (two)"},
		{"not empty", core.StringNotEmpty{}, `"any not empty string"`},
		{"string variants", core.StringVariants{Variants: []core.StringVariant{{Value: "кухня", Description: "kitchen"}, {Value: "hall", Description: "hall"}}}, `"кухня" (kitchen)|"hall" (hall)`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ConstraintText(tc.c))
		})
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	g, err := NewTemplateGenerator("S:{{.StateText}}|F:{{.FunctionsText}}|N:{{len .Functions}}|{{default \"x\" \"\"}}")
	require.NoError(t, err)

	out, err := g.Render(
		core.State{"a": {Description: "d", Value: "<v>"}},
		core.Functions{"f": {Description: "g", Arguments: map[string]core.ArgumentDescriptor{}}},
	)
	require.NoError(t, err)
	assert.Equal(t, "S:a (d): <v>|F:f (g)\n|N:1|x", out)
}

func TestRenderDefaultTemplate(t *testing.T) {
	out, err := NewDefaultGenerator().Render(core.State{"a": {Description: "d", Value: "v"}}, core.Functions{})
	require.NoError(t, err)
	assert.Contains(t, out, "a (d): v")
	assert.Contains(t, out, "CONTINUE_DIALOG")
	assert.Contains(t, out, "call_function")
}

func TestNewTemplateGeneratorFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{.StateText}}"), 0o600))

	g, err := NewTemplateGeneratorFromFile(path)
	require.NoError(t, err)
	out, err := g.Render(core.State{"k": {Description: "d", Value: "v"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "k (d): v", out)

	_, err = NewTemplateGeneratorFromFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestNewTemplateGeneratorParseError(t *testing.T) {
	_, err := NewTemplateGenerator("{{.Broken")
	assert.Error(t, err)
}
