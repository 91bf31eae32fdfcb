package internal

import (
	"context"
	"fmt"
	"sync"
)

// FallbackReply is appended when the chat client reports a failure
const FallbackReply = "Sorry, I couldn't connect to the AI assistant. Please check your connection or try again later."

// Suggestions are offered on an empty session
var Suggestions = []string{
	"Suggest a captivating book to read",
	"Explain quantum computing in simple terms",
	"Write a short story about a friendly robot",
	"Plan a 3-day trip to Tokyo",
}

// TitleSource produces a title for a session's first message
type TitleSource interface {
	Generate(ctx context.Context, firstMessage string) string
}

// View is a snapshot of controller state for presentation
type View struct {
	Sessions    []Session
	Active      *Session
	IsLoading   bool
	ShowWelcome bool
	Suggestions []string
}

// Controller owns the session list, the active session pointer and the loading flag.
// Every mutation is mirrored to the store adapter.
//
// The loading flag is global: while one send is pending, sends to any session are
// refused, not only sends to the pending one.
type Controller struct {
	mu       sync.Mutex
	store    *StoreAdapter
	client   ChatClient
	ids      *IDGenerator
	sessions []Session
	activeID *string
	loading  bool
}

// NewController loads persisted sessions and the active id from store
func NewController(store *StoreAdapter, client ChatClient, ids *IDGenerator) *Controller {
	if ids == nil {
		ids = NewIDGenerator(nil)
	}
	c := &Controller{
		store:    store,
		client:   client,
		ids:      ids,
		sessions: Get(store, KeySessions, []Session{}),
		activeID: Get[*string](store, KeyActiveSessionID, nil),
	}
	for i := range c.sessions {
		if c.sessions[i].Messages == nil {
			c.sessions[i].Messages = []Message{}
		}
	}
	return c
}

// Bootstrap creates a first session when there is none, and repairs a missing or
// dangling active pointer otherwise.
func (c *Controller) Bootstrap() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.sessions) == 0 {
		s := NewSession(c.ids.Next(c.hasID))
		c.sessions = []Session{s}
		c.setActive(&s.ID)
		c.persistSessions()
		return
	}
	if c.activeID == nil || c.indexOf(*c.activeID) < 0 {
		c.resetActive()
	}
}

// NewChat prepends an empty session and makes it active
func (c *Controller) NewChat() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := NewSession(c.ids.Next(c.hasID))
	c.sessions = append([]Session{s}, c.sessions...)
	c.persistSessions()
	c.setActive(&s.ID)
	return s.clone()
}

// SelectSession sets the active id without checking that it exists
func (c *Controller) SelectSession(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setActive(&id)
}

// RenameSession retitles the matching session; unknown ids are ignored
func (c *Controller) RenameSession(id, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(id); i >= 0 {
		c.sessions[i].Title = title
		c.persistSessions()
	}
}

// DeleteSession removes the matching session. Deleting the active session moves the
// pointer to the new first session, or null when none remain.
func (c *Controller) DeleteSession(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return
	}
	c.sessions = append(c.sessions[:i:i], c.sessions[i+1:]...)
	c.persistSessions()

	if c.activeID != nil && *c.activeID == id {
		c.resetActive()
	}
}

// SendMessage appends text as a user message to the active session, asks the chat
// client for a reply and appends it. It reports sent=false without side effects when
// a send is already in flight or no session is active. The error is only the
// caller's context error; client failures become FallbackReply.
func (c *Controller) SendMessage(ctx context.Context, text string) (bool, error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return false, nil
	}
	i := c.activeIndex()
	if i < 0 {
		c.mu.Unlock()
		return false, nil
	}

	session := c.sessions[i]
	prior := session.clone().Messages
	current := make([]Message, 0, len(prior)+2)
	current = append(current, prior...)
	current = append(current, Message{Role: RoleUser, Content: text})

	c.sessions[i].Messages = current[:len(current):len(current)]
	if len(prior) == 0 {
		c.sessions[i].Title = TruncateTitle(text)
	}
	c.loading = true
	c.persistSessions()
	c.mu.Unlock()

	defer c.finishSend()

	reply, err := c.client.Send(ctx, ChatRequest{
		Message:   text,
		History:   prior,
		SessionID: session.ID,
	})
	modelMsg := Message{Role: RoleModel, Content: reply}
	if err != nil {
		LogWarn("Chat request for %s failed: %v", session.ID, err)
		modelMsg.Content = FallbackReply
	}

	c.mu.Lock()
	c.updateSessionMessages(session.ID, append(current, modelMsg))
	c.mu.Unlock()

	return true, ctx.Err()
}

// ApplyGeneratedTitle retitles a session from its first user message using gen
func (c *Controller) ApplyGeneratedTitle(ctx context.Context, id string, gen TitleSource) (string, error) {
	s, ok := c.Session(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	first := ""
	for _, msg := range s.Messages {
		if msg.Role == RoleUser {
			first = msg.Content
			break
		}
	}
	if first == "" {
		return "", fmt.Errorf("session %s has no user message to title", id)
	}

	title := gen.Generate(ctx, first)
	c.RenameSession(id, title)
	return title, nil
}

// Sessions returns a copy of all sessions, newest first
func (c *Controller) Sessions() []Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Session, len(c.sessions))
	for i, s := range c.sessions {
		out[i] = s.clone()
	}
	return out
}

// Session returns a copy of the session with id
func (c *Controller) Session(id string) (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(id); i >= 0 {
		return c.sessions[i].clone(), true
	}
	return Session{}, false
}

// ActiveSessionID returns the active pointer; ok is false when it is null
func (c *Controller) ActiveSessionID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeID == nil {
		return "", false
	}
	return *c.activeID, true
}

// ActiveSession returns the session the active pointer designates, if any
func (c *Controller) ActiveSession() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.activeIndex(); i >= 0 {
		return c.sessions[i].clone(), true
	}
	return Session{}, false
}

// IsLoading reports whether a send is in flight
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// View returns a consistent snapshot for rendering
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Sessions:    make([]Session, len(c.sessions)),
		IsLoading:   c.loading,
		Suggestions: Suggestions,
	}
	for i, s := range c.sessions {
		v.Sessions[i] = s.clone()
	}
	if i := c.activeIndex(); i >= 0 {
		active := c.sessions[i].clone()
		v.Active = &active
		v.ShowWelcome = len(active.Messages) == 0 && !c.loading
	}
	return v
}

func (c *Controller) finishSend() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

// updateSessionMessages replaces the log of id; a session deleted meanwhile is skipped
func (c *Controller) updateSessionMessages(id string, messages []Message) {
	if i := c.indexOf(id); i >= 0 {
		c.sessions[i].Messages = messages
		c.persistSessions()
	}
}

func (c *Controller) indexOf(id string) int {
	for i, s := range c.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) hasID(id string) bool {
	return c.indexOf(id) >= 0
}

func (c *Controller) activeIndex() int {
	if c.activeID == nil {
		return -1
	}
	return c.indexOf(*c.activeID)
}

// resetActive points at the first session, or null for an empty list
func (c *Controller) resetActive() {
	if len(c.sessions) == 0 {
		c.setActive(nil)
		return
	}
	id := c.sessions[0].ID
	c.setActive(&id)
}

func (c *Controller) setActive(id *string) {
	c.activeID = id
	c.store.Set(KeyActiveSessionID, id)
}

func (c *Controller) persistSessions() {
	c.store.Set(KeySessions, c.sessions)
}
