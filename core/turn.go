package core

// Request is the inbound turn payload.
type Request struct {
	Text      string   `json:"text"`
	SessionID string   `json:"sessionId,omitempty"`
	Biometry  Biometry `json:"biometry"`
}

// Response is the outbound turn result. Directives is never nil.
type Response struct {
	Text             string      `json:"text"`
	RequireMoreInput bool        `json:"requireMoreInput"`
	SessionID        string      `json:"sessionId"`
	Directives       []Directive `json:"directives"`
}
