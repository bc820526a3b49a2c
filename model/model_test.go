package model

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel(t *testing.T) {
	m := NewMockModel("mock-1")
	m.AddResponse("hi", "hello")

	req := Request{
		Instructions: "sys",
		History:      []core.Message{core.NewUserMessage("old"), core.NewAssistantMessage("a"), core.NewUserMessage("hi")},
	}
	resp, err := m.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)

	resp, err = m.Complete(context.Background(), Request{History: []core.Message{core.NewUserMessage("x")}})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: x", resp.Text)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "sys", reqs[0].Instructions)
	assert.Equal(t, Info{Name: "mock-1", Provider: "mock"}, m.Info())
}

func TestMockModelError(t *testing.T) {
	m := NewMockModel("mock")
	boom := errors.New("boom")
	m.SetError(boom)

	_, err := m.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.SetError(nil)
	_, err = m.Complete(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLastUserText(t *testing.T) {
	assert.Equal(t, "", Request{}.LastUserText())
	req := Request{History: []core.Message{core.NewUserMessage("a"), core.NewAssistantMessage("b")}}
	assert.Equal(t, "a", req.LastUserText())
}
