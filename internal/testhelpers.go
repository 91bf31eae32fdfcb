package internal

import "fmt"

// CreateTestSession creates a session holding one exchange
func CreateTestSession(id string) *Session {
	return &Session{
		ID:    id,
		Title: "Test Conversation",
		Messages: []Message{
			{Role: RoleUser, Content: "Hello, how are you?"},
			{Role: RoleModel, Content: "I'm doing well, thank you!"},
		},
	}
}

// CreateTestSessionWithMessages creates a session with custom messages
func CreateTestSessionWithMessages(id string, messages []Message) *Session {
	if messages == nil {
		messages = []Message{}
	}
	return &Session{ID: id, Title: DefaultSessionTitle, Messages: messages}
}

// CreateTestSessions creates n sessions with ids session-1 .. session-n, newest first
func CreateTestSessions(n int) []Session {
	sessions := make([]Session, 0, n)
	for i := n; i >= 1; i-- {
		s := CreateTestSession(fmt.Sprintf("session-%d", i))
		s.Title = fmt.Sprintf("Conversation %d", i)
		sessions = append(sessions, *s)
	}
	return sessions
}
