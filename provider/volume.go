package provider

import (
	"context"
	"fmt"

	"github.com/hupe1980/dialogmesh/core"
)

// Volume directive types returned to the voice assistant.
const (
	DirectiveSoundSetLevel = "soundSetLevel"
	DirectiveSoundLouder   = "soundLouder"
	DirectiveSoundQuieter  = "soundQuieter"
)

// NewVolumeDirectiveProvider returns the built-in voice assistant volume controls.
func NewVolumeDirectiveProvider() *DirectiveProvider {
	return NewDirectiveProvider("alice-directive", map[string]DirectiveFunc{
		"alice_set_volume_level": {
			Descriptor: core.ActionDescriptor{
				Description: "sets volume level of Алиса voice assistant",
				Arguments: map[string]core.ArgumentDescriptor{
					"level": {Description: "volume level", Constraint: core.NumberRange{Min: 1, Max: 10}},
				},
			},
			Call: func(_ context.Context, _ core.SessionContext, args core.Arguments) (core.Directive, error) {
				level, ok := args["level"].(core.Number)
				if !ok {
					return core.Directive{}, fmt.Errorf("level must be a number")
				}
				return core.NewDirective(DirectiveSoundSetLevel, map[string]any{"newLevel": float64(level)}), nil
			},
		},
		"alice_set_volume_louder": {
			Descriptor: core.ActionDescriptor{
				Description: "makes volume level of Алиса voice assistant relatively louder",
				Arguments:   map[string]core.ArgumentDescriptor{},
			},
			Call: func(context.Context, core.SessionContext, core.Arguments) (core.Directive, error) {
				return core.NewDirective(DirectiveSoundLouder, nil), nil
			},
		},
		"alice_set_volume_quieter": {
			Descriptor: core.ActionDescriptor{
				Description: "makes volume level of Алиса voice assistant relatively quieter",
				Arguments:   map[string]core.ArgumentDescriptor{},
			},
			Call: func(context.Context, core.SessionContext, core.Arguments) (core.Directive, error) {
				return core.NewDirective(DirectiveSoundQuieter, nil), nil
			},
		},
	})
}
