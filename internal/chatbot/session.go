package chatbot

import (
	"sync"

	"github.com/google/uuid"

	"menurag/internal/domain"
)

// Session holds the conversation state for a single user session. Sessions
// never share mutable state, while the read-only knowledge base behind the
// retriever may be shared across them. History access is synchronized: a
// presentation layer may read or clear it while a turn runs in another
// goroutine.
type Session struct {
	id      uuid.UUID
	mu      sync.RWMutex
	history []domain.Message
}

func NewSession() *Session {
	return &Session{id: uuid.New()}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id.String() }

// History returns a copy of the conversation so far.
func (s *Session) History() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Message, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory drops the conversation. Only explicit user action calls
// this; history is otherwise append-only.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *Session) append(role domain.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, domain.Message{Role: role, Content: content})
}
