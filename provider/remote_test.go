package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteStateProvider(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"weather":{"description":"weather outside","value":"sunny"}}`)
	}))
	defer srv.Close()

	p := NewRemoteStateProvider(srv.URL)
	sess := core.SessionContext{ID: "s1", Biometry: core.Biometry{AgeClass: "adult", GenderClass: "male"}}

	st, err := p.State(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, core.State{"weather": {Description: "weather outside", Value: "sunny"}}, st)
	assert.JSONEq(t, `{"id":"s1","biometry":{"age":"adult","gender":"male"}}`, string(body["context"]))
	assert.Equal(t, "remote{"+srv.URL+"}", p.Name())
}

func TestRemoteStateProviderErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"malformed body", http.StatusOK, `not json`},
		{"null body", http.StatusOK, `null`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.payload)
			}))
			defer srv.Close()

			_, err := NewRemoteStateProvider(srv.URL).State(context.Background(), core.SessionContext{})
			assert.Error(t, err)
		})
	}
}

func TestRemoteFunctionProvider(t *testing.T) {
	var call struct {
		SessionContext core.SessionContext `json:"sessionContext"`
		Name           string              `json:"name"`
		Parameters     map[string]any      `json:"parameters"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{
				"lamp_on": {
					"description": "turns on the lamp",
					"arguments": {
						"room": {"description": "room", "constraints": {"type": "string-variants", "argumentType": "string", "variants": [{"value": "kitchen", "description": "kitchen"}]}}
					}
				}
			}`)
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	p := NewRemoteFunctionProvider(srv.URL, func(o *RemoteOptions) { o.HTTPClient = srv.Client() })
	sess := core.SessionContext{ID: "s1"}

	fns, err := p.Functions(context.Background(), sess)
	require.NoError(t, err)
	require.Contains(t, fns, "lamp_on")
	assert.Equal(t, "turns on the lamp", fns["lamp_on"].Description)
	assert.Equal(t, core.KindString, fns["lamp_on"].Arguments["room"].Constraint.Kind())

	err = p.CallFunction(context.Background(), sess, "lamp_on", core.Arguments{"room": core.Text("kitchen")})
	require.NoError(t, err)
	assert.Equal(t, "s1", call.SessionContext.ID)
	assert.Equal(t, "lamp_on", call.Name)
	assert.Equal(t, map[string]any{"room": "kitchen"}, call.Parameters)
}

func TestRemoteFunctionProviderCallFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewRemoteFunctionProvider(srv.URL).CallFunction(context.Background(), core.SessionContext{}, "x", core.Arguments{})
	assert.ErrorContains(t, err, "unexpected status 502")
}
