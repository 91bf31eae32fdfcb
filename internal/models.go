package internal

// Role identifies the author of a message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation. Messages are never mutated once appended.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// ChatHistoryPart is a single text part of a wire-format history entry
type ChatHistoryPart struct {
	Text string `json:"text"`
}

// ChatHistory is the transport shape of a Message
type ChatHistory struct {
	Role  Role              `json:"role"`
	Parts []ChatHistoryPart `json:"parts"`
}

// ChatRequest is everything a chat backend may need to answer one user message
type ChatRequest struct {
	Message   string
	History   []Message
	SessionID string
}

// ToChatHistory converts messages into the role + parts wire shape.
// The result is always non-nil so it encodes as [] rather than null.
func ToChatHistory(messages []Message) []ChatHistory {
	history := make([]ChatHistory, 0, len(messages))
	for _, msg := range messages {
		history = append(history, ChatHistory{
			Role:  msg.Role,
			Parts: []ChatHistoryPart{{Text: msg.Content}},
		})
	}
	return history
}
