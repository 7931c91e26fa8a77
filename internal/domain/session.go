package domain

import "time"

const (
	titleMaxLen         = 30
	titleFallbackPrefix = "Chat "
	titleIDLen          = 6
)

// Session is one independent conversation thread with its own ordered
// message log.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages,omitempty"`
}

// Clone returns a copy of the session with its own message slice, so a
// snapshot cannot be mutated behind the owner's back.
func (s *Session) Clone() *Session {
	c := &Session{ID: s.ID, CreatedAt: s.CreatedAt}
	if len(s.Messages) > 0 {
		c.Messages = make([]Message, len(s.Messages))
		copy(c.Messages, s.Messages)
	}
	return c
}

// Title derives a short human label for the session. The first user message
// wins, truncated to 30 characters with a trailing ellipsis when longer.
// Sessions with no user message fall back to a prefix plus the first six
// characters of the id. Recomputed on demand, never cached.
func (s *Session) Title() string {
	for _, m := range s.Messages {
		if m.Role != RoleUser {
			continue
		}
		runes := []rune(m.Content)
		if len(runes) > titleMaxLen {
			return string(runes[:titleMaxLen]) + "…"
		}
		return m.Content
	}

	id := s.ID
	if len(id) > titleIDLen {
		id = id[:titleIDLen]
	}
	return titleFallbackPrefix + id
}
