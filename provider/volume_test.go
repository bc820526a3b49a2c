package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumeDirectiveProvider(t *testing.T) {
	p := NewVolumeDirectiveProvider()
	ctx := context.Background()

	fns, err := p.Functions(ctx, core.SessionContext{})
	require.NoError(t, err)
	assert.Len(t, fns, 3)
	assert.Equal(t, core.NumberRange{Min: 1, Max: 10}, fns["alice_set_volume_level"].Arguments["level"].Constraint)

	cases := []struct {
		name string
		args core.Arguments
		want core.Directive
	}{
		{"alice_set_volume_level", core.Arguments{"level": core.Number(5)}, core.NewDirective(DirectiveSoundSetLevel, map[string]any{"newLevel": float64(5)})},
		{"alice_set_volume_louder", core.Arguments{}, core.NewDirective(DirectiveSoundLouder, nil)},
		{"alice_set_volume_quieter", core.Arguments{}, core.NewDirective(DirectiveSoundQuieter, nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := p.CallDirective(ctx, core.SessionContext{}, tc.name, tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, d)
		})
	}
}

func TestVolumeLevelFromCoercedText(t *testing.T) {
	p := NewVolumeDirectiveProvider()
	fns, _ := p.Functions(context.Background(), core.SessionContext{})

	args, err := validator.Validate(fns["alice_set_volume_level"], core.Arguments{"level": core.Text("7")})
	require.NoError(t, err)

	d, err := p.CallDirective(context.Background(), core.SessionContext{}, "alice_set_volume_level", args)
	require.NoError(t, err)
	assert.Equal(t, float64(7), d.Fields["newLevel"])
}

func TestDirectiveProviderUnknownAction(t *testing.T) {
	_, err := NewVolumeDirectiveProvider().CallDirective(context.Background(), core.SessionContext{}, "nope", core.Arguments{})
	assert.True(t, errors.Is(err, core.ErrUnknownAction))
}
