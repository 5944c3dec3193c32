package session

import (
	"sync"

	"github.com/mgrain/sopchat/internal/models"
)

// Session holds the ordered message history for one interactive session.
// Append-only during normal operation; cleared only by an explicit reset.
// Interactions within a session are serialized, but the CLI and server
// surfaces share the type, so appends are guarded anyway.
type Session struct {
	mu       sync.Mutex
	messages []models.Message
}

func New() *Session {
	return &Session{}
}

func (s *Session) AppendUser(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, models.Message{
		Role:    models.RoleUser,
		Content: content,
	})
}

// AppendAssistant records an answered turn. Every assistant message carries
// the source chunk id and latency of the answer that produced it.
func (s *Session) AppendAssistant(content string, meta models.MessageMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, models.Message{
		Role:    models.RoleAssistant,
		Content: content,
		Meta:    &meta,
	})
}

// Messages returns a copy of the history in insertion order.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
