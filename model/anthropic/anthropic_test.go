package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteAgainstStubServer(t *testing.T) {
	var got struct {
		System []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude",
			"content": [{"type": "text", "text": "CONTINUE_DIALOG "}, {"type": "text", "text": "which room?"}],
			"stop_reason": "end_turn", "stop_sequence": null,
			"usage": {"input_tokens": 7, "output_tokens": 4}
		}`)
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.BaseURL = srv.URL
		o.APIKey = "k"
	})
	resp, err := m.Complete(context.Background(), model.Request{
		Instructions: "prompt",
		History:      []core.Message{core.NewUserMessage("turn on the light"), core.NewAssistantMessage(""), core.NewUserMessage("please")},
	})
	require.NoError(t, err)

	assert.Equal(t, "CONTINUE_DIALOG which room?", resp.Text)
	assert.Equal(t, "end_turn", resp.FinishReason)
	assert.Equal(t, 11, resp.Usage.TotalTokens)
	require.Len(t, got.System, 1)
	assert.Equal(t, "prompt", got.System[0].Text)
	assert.Len(t, got.Messages, 2)
}

func TestBuildMessagesRoles(t *testing.T) {
	msgs := buildMessages([]core.Message{core.NewUserMessage("a"), core.NewAssistantMessage("b")})
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
}
