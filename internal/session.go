package internal

import (
	"fmt"
	"time"
)

const (
	// DefaultSessionTitle is the title of a session that has no messages yet
	DefaultSessionTitle = "New Chat"

	titleMaxLen   = 30
	titleKeepLen  = 27
	titleEllipsis = "..."
)

// Session represents a named conversation and its ordered message log
type Session struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Messages []Message `json:"messages" yaml:"messages"`
}

// NewSession creates an empty session titled "New Chat"
func NewSession(id string) Session {
	return Session{ID: id, Title: DefaultSessionTitle, Messages: []Message{}}
}

// clone returns a copy whose message slice does not alias the original
func (s Session) clone() Session {
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	s.Messages = msgs
	return s
}

// CreatedAt recovers the creation time encoded in a session-<millis> id.
func (s Session) CreatedAt() (time.Time, bool) {
	var ms int64
	if _, err := fmt.Sscanf(s.ID, "session-%d", &ms); err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// TruncateTitle derives a session title from the first message: the text itself when it
// is at most 30 characters, else its first 27 characters followed by "...".
func TruncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) > titleMaxLen {
		return string(runes[:titleKeepLen]) + titleEllipsis
	}
	return text
}

// IDGenerator produces session ids of the form session-<unix millis>
type IDGenerator struct {
	now func() time.Time
}

// NewIDGenerator creates a generator reading the given clock (time.Now when nil)
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns an id not present in taken, advancing one millisecond per collision.
func (g *IDGenerator) Next(taken func(id string) bool) string {
	ms := g.now().UnixMilli()
	for {
		id := fmt.Sprintf("session-%d", ms)
		if taken == nil || !taken(id) {
			return id
		}
		ms++
	}
}
