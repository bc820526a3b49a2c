package decoder

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diff(want, got core.StructuredResponse) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

func TestTokenDecoder(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want core.StructuredResponse
	}{
		{
			name: "call with continuation",
			raw:  "call_function alice_set_volume_level level=5 CONTINUE_DIALOG hello there",
			want: core.StructuredResponse{
				Text:             "hello there",
				RequireMoreInput: true,
				Calls:            []core.ActionCall{{Name: "alice_set_volume_level", Parameters: core.Arguments{"level": core.Number(5)}}},
			},
		},
		{
			name: "plain text",
			raw:  "just text",
			want: core.StructuredResponse{Text: "just text"},
		},
		{
			name: "several calls and collapsed whitespace",
			raw:  "  call_function a x=1 y=-2\ncall_function b\tdone  now ",
			want: core.StructuredResponse{
				Text: "done now",
				Calls: []core.ActionCall{
					{Name: "a", Parameters: core.Arguments{"x": core.Number(1), "y": core.Number(-2)}},
					{Name: "b", Parameters: core.Arguments{}},
				},
			},
		},
		{
			name: "duplicate parameter keeps first",
			raw:  "call_function a x=1 x=2 ok",
			want: core.StructuredResponse{
				Text:  "ok",
				Calls: []core.ActionCall{{Name: "a", Parameters: core.Arguments{"x": core.Number(1)}}},
			},
		},
		{
			name: "non integer value ends parameter run",
			raw:  "call_function a x=1.5 rest",
			want: core.StructuredResponse{
				Text:  "x=1.5 rest",
				Calls: []core.ActionCall{{Name: "a", Parameters: core.Arguments{}}},
			},
		},
		{
			name: "continue only",
			raw:  "CONTINUE_DIALOG what else?",
			want: core.StructuredResponse{Text: "what else?", RequireMoreInput: true},
		},
		{
			name: "continue token inside text is kept",
			raw:  "hello CONTINUE_DIALOG",
			want: core.StructuredResponse{Text: "hello CONTINUE_DIALOG"},
		},
		{
			name: "dangling call keyword stays text",
			raw:  "call_function",
			want: core.StructuredResponse{Text: "call_function"},
		},
		{
			name: "empty",
			raw:  "   ",
			want: core.StructuredResponse{},
		},
	}

	dec := NewTokenDecoder()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if d := diff(tc.want, dec.Decode(tc.raw)); d != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tc.raw, d)
			}
		})
	}
}

func TestJSONDecoder(t *testing.T) {
	dec := NewJSONDecoder()

	got := dec.Decode(`{
		"text": "ok",
		"continue_dialog": true,
		"function_calls": [
			{"name": "lights_on", "args": {"room": "kitchen", "level": 3}, "schedule": "1m 30s"},
			{"name": "alice_set_volume_louder", "args": {}}
		]
	}`)

	want := core.StructuredResponse{
		Text:             "ok",
		RequireMoreInput: true,
		Calls: []core.ActionCall{
			{Name: "lights_on", Parameters: core.Arguments{"room": core.Text("kitchen"), "level": core.Number(3)}, Schedule: 90 * time.Second},
			{Name: "alice_set_volume_louder", Parameters: core.Arguments{}},
		},
	}
	if d := diff(want, got); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
	assert.Equal(t, int64(90000), got.Calls[0].Schedule.Milliseconds())
}

func TestJSONDecoder_DuplicateArgumentKeepsLast(t *testing.T) {
	log := testutil.NewRecordingLogger()
	dec := NewJSONDecoder(func(o *Options) { o.Logger = log })

	got := dec.Decode(`{"text":"ok","continue_dialog":false,"function_calls":[{"name":"a","args":{"x":1,"x":"2"}}]}`)

	require.Len(t, got.Calls, 1)
	assert.Equal(t, core.Arguments{"x": core.Text("2")}, got.Calls[0].Parameters)
	assert.True(t, log.Has("decoder.json.duplicate_parameter"))
}

func TestJSONDecoder_Fallback(t *testing.T) {
	d := NewJSONDecoder()
	inputs := []string{
		`not json`,
		`{"text": "x"`,
		`[]`,
		`{"text": 1, "continue_dialog": false, "function_calls": []}`,
		`{"text": "x", "function_calls": []}`,
		`{"text": "x", "continue_dialog": "yes", "function_calls": []}`,
		`{"text": "x", "continue_dialog": false, "function_calls": {}}`,
		`{"text": "x", "continue_dialog": false, "function_calls": [{"args": {}}]}`,
		`{"text": "x", "continue_dialog": false, "function_calls": [{"name": "a", "args": {"b": true}}]}`,
		`{"text": "x", "continue_dialog": false, "function_calls": [{"name": "a", "args": {}, "schedule": 5}]}`,
	}
	for _, in := range inputs {
		got := d.Decode(in)
		assert.Empty(t, got.Text, in)
		assert.False(t, got.RequireMoreInput, in)
		assert.NotNil(t, got.Calls, in)
		assert.Empty(t, got.Calls, in)
	}
}

func TestParseSchedule(t *testing.T) {
	assert.Equal(t, 90*time.Second, ParseSchedule("1m 30s", nil))
	assert.Equal(t, 250*time.Millisecond, ParseSchedule("250ms", nil))
	assert.Equal(t, 26*time.Hour, ParseSchedule("1d 2h", nil))
	assert.Equal(t, 1500*time.Millisecond, ParseSchedule("1.5s", nil))
	assert.Equal(t, 2*time.Second, ParseSchedule("soon 2s 3x", nil))
	assert.Equal(t, time.Duration(0), ParseSchedule("", nil))
}

func TestParseScheduleClampsOverflow(t *testing.T) {
	log := testutil.NewRecordingLogger()

	got := ParseSchedule("200000d", log)

	assert.Equal(t, time.Duration(math.MaxInt64), got)
	assert.Positive(t, got)
	assert.True(t, log.Has("decoder.schedule.clamped"))

	calls := NewJSONDecoder().Decode(`{"text":"","continue_dialog":false,"function_calls":[{"name":"a","args":{},"schedule":"100000d 100000d"}]}`).Calls
	require.Len(t, calls, 1)
	assert.Equal(t, time.Duration(math.MaxInt64), calls[0].Schedule)
}

func TestPlainDecoder(t *testing.T) {
	got := NewPlainDecoder().Decode("call_function a CONTINUE_DIALOG")
	assert.Equal(t, "call_function a CONTINUE_DIALOG", got.Text)
	assert.False(t, got.RequireMoreInput)
	assert.Empty(t, got.Calls)
}

func TestNew(t *testing.T) {
	for format, want := range map[Format]any{
		FormatFunctionCall: &TokenDecoder{},
		FormatToken:        &TokenDecoder{},
		"JSON":             &JSONDecoder{},
		FormatPlain:        &PlainDecoder{},
	} {
		d, err := New(format)
		require.NoError(t, err)
		assert.IsType(t, want, d)
	}

	_, err := New("xml")
	assert.Error(t, err)
}
