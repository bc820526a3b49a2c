package core

// Role identifies the author of a history message.
type Role string

const (
	// RoleUser marks an utterance received from the caller.
	RoleUser Role = "user"
	// RoleAssistant marks an answer produced by the completion engine.
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn as persisted in the session history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a user authored message.
func NewUserMessage(text string) Message { return Message{Role: RoleUser, Content: text} }

// NewAssistantMessage creates an assistant authored message.
func NewAssistantMessage(text string) Message { return Message{Role: RoleAssistant, Content: text} }

// CloneHistory returns a copy of the history safe for independent mutation.
func CloneHistory(history []Message) []Message {
	if history == nil {
		return nil
	}
	out := make([]Message, len(history))
	copy(out, history)
	return out
}
