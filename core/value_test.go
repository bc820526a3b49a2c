package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArguments_UnmarshalJSON(t *testing.T) {
	var args Arguments
	err := json.Unmarshal([]byte(`{"level": 5, "mode": "night", "ratio": -0.5}`), &args)
	require.NoError(t, err)

	assert.Equal(t, Number(5), args["level"])
	assert.Equal(t, Text("night"), args["mode"])
	assert.Equal(t, Number(-0.5), args["ratio"])
	assert.Equal(t, KindNumber, args["level"].Kind())
	assert.Equal(t, KindString, args["mode"].Kind())
}

func TestArguments_UnmarshalJSON_RejectsOtherKinds(t *testing.T) {
	for _, in := range []string{`{"a": true}`, `{"a": null}`, `{"a": [1]}`, `{"a": {"b": 1}}`, `[1, 2]`, `null`} {
		var args Arguments
		assert.Error(t, json.Unmarshal([]byte(in), &args), in)
	}
}

func TestNumber_String(t *testing.T) {
	assert.Equal(t, "5", Number(5).String())
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "-3", Number(-3).String())
}

func TestArguments_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Arguments{"level": Number(7), "mode": Text("x")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":7,"mode":"x"}`, string(raw))
}
