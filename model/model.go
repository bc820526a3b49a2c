package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/dialogmesh/core"
)

// Request captures the normalized completion input.
type Request struct {
	Instructions string         `json:"instructions"` // Rendered system prompt
	History      []core.Message `json:"history"`      // Prior turns plus the current user message
}

// LastUserText returns the content of the latest user message, or "".
func (r Request) LastUserText() string {
	for i := len(r.History) - 1; i >= 0; i-- {
		if r.History[i].Role == core.RoleUser {
			return r.History[i].Content
		}
	}
	return ""
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the raw completion of the first choice.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock"
}

// Model is the completion engine contract.
type Model interface {
	// Complete returns the answer text; an absent answer yields "" without error.
	Complete(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Replies are looked up by the latest user text.
type MockModel struct {
	info Info

	mu        sync.Mutex
	responses map[string]string
	err       error
	requests  []Request
}

var _ Model = (*MockModel)(nil)

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a canned completion for a user utterance.
func (m *MockModel) AddResponse(userText, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[userText] = response
}

// SetError makes every subsequent completion fail with err (nil clears it).
func (m *MockModel) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, Request{Instructions: req.Instructions, History: core.CloneHistory(req.History)})
	if m.err != nil {
		return Response{}, m.err
	}
	input := req.LastUserText()
	text, ok := m.responses[input]
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", input)
	}
	return Response{Text: text, FinishReason: "stop"}, nil
}

// Requests returns a copy of every request received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
