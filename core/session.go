package core

import (
	"context"

	"github.com/google/uuid"
)

// Biometry holds the caller classification supplied with each request.
type Biometry struct {
	AgeClass    string `json:"age"`
	GenderClass string `json:"gender"`
}

// SessionContext identifies the conversation a turn belongs to. It is derived
// fresh for every request and never persisted.
type SessionContext struct {
	ID       string   `json:"id"`
	Biometry Biometry `json:"biometry"`
}

// NewSessionID returns a random session identifier.
func NewSessionID() string { return uuid.NewString() }

// SessionStore persists the conversation history of a session.
//
// Contract:
//   - Load reports found=false (and no error) for unknown sessions
//   - Save replaces the whole history; there are no partial updates and no
//     versioning, so concurrent turns on one session resolve as last save wins
//   - Implementations must not retain the caller's slice
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (history []Message, found bool, err error)
	Save(ctx context.Context, sessionID string, history []Message) error
}
