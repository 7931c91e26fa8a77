// Package chat is the multi-session conversational state engine: session
// lifecycle, optimistic message application, per-session loading flags,
// minimum-latency presentation smoothing and server identity reconciliation.
package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mclellan/stocktalk/internal/domain"
	"github.com/mclellan/stocktalk/internal/logging"
)

// ErrInvalidSession is returned when an operation references a session id
// that is not present in the store.
var ErrInvalidSession = errors.New("chat: unknown session")

// Store owns the ordered collection of sessions and each session's message
// log. Sessions are kept newest-first; exactly one session is active whenever
// the list is non-empty. All access is guarded by one mutex, so there is no
// window between "check id exists" and "append".
type Store struct {
	mu       sync.Mutex
	sessions []*domain.Session
	active   string
	loading  map[string]bool
	log      *logging.Logger
}

// NewStore creates a store holding a single empty active session.
func NewStore(log *logging.Logger) *Store {
	s := &Store{
		loading: make(map[string]bool),
		log:     log.Sub("chat"),
	}
	first := s.newSessionLocked()
	s.active = first.ID
	return s
}

func (s *Store) newSessionLocked() *domain.Session {
	sess := &domain.Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
	s.sessions = append([]*domain.Session{sess}, s.sessions...)
	return sess
}

// NewSession prepends a fresh empty session and returns its id. The active
// session does not change; callers decide whether to switch.
func (s *Store) NewSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.newSessionLocked()
	s.log.Debug().Str("sessionId", sess.ID).Msg("session created")
	return sess.ID
}

// Sessions returns a snapshot of all sessions in presentation order.
func (s *Store) Sessions() []*domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Get returns a snapshot of one session.
func (s *Store) Get(id string) (*domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.findLocked(id); sess != nil {
		return sess.Clone(), true
	}
	return nil, false
}

// Active returns the id of the currently active session.
func (s *Store) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetActive selects the session to display. Unknown ids are an error.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return ErrInvalidSession
	}
	s.active = id
	return nil
}

// Append adds a message to a session's log. Appending to an id that no
// longer exists is a silent no-op: a response may settle after its session
// was deleted, and that settle must not materialize anywhere.
func (s *Store) Append(id string, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.findLocked(id)
	if sess == nil {
		s.log.Debug().Str("sessionId", id).Msg("append dropped, session gone")
		return
	}
	sess.Messages = append(sess.Messages, msg)
}

// Delete removes a session and its loading flag. When the active session is
// deleted, the first remaining session in list order becomes active; when
// none remain, a fresh empty session is created and activated.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, sess := range s.sessions {
		if sess.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	delete(s.loading, id)
	s.log.Debug().Str("sessionId", id).Msg("session deleted")

	if s.active != id {
		return
	}
	if len(s.sessions) > 0 {
		s.active = s.sessions[0].ID
		return
	}
	s.active = s.newSessionLocked().ID
}

// Reconcile folds a server-reported session identity into the store. A known
// id (including the client's own) is simply the target. An unknown id becomes
// a new empty session, prepended and made active. The optimistic user message
// stays under clientID either way; it is not migrated to the new session.
// Returns the id results should be appended to.
//
// When clientID was deleted while the request was in flight, nothing is
// created or activated: the settle must not materialize any visible effect,
// so the returned id points at the deleted session and appends to it no-op.
func (s *Store) Reconcile(serverID, clientID string) string {
	if serverID == "" {
		return clientID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(clientID) == nil {
		s.log.Debug().
			Str("serverId", serverID).
			Str("clientId", clientID).
			Msg("reconcile dropped, session gone")
		return clientID
	}

	if s.findLocked(serverID) != nil {
		return serverID
	}

	sess := &domain.Session{
		ID:        serverID,
		CreatedAt: time.Now(),
	}
	s.sessions = append([]*domain.Session{sess}, s.sessions...)
	s.active = serverID
	s.log.Info().
		Str("serverId", serverID).
		Str("clientId", clientID).
		Msg("adopted server-issued session id")
	return serverID
}

// Loading reports whether a request for the session is still being presented
// as in flight.
func (s *Store) Loading(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[id]
}

// beginLoading flags a session as loading. The flag is only ever created for
// a session that exists.
func (s *Store) beginLoading(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return
	}
	s.loading[id] = true
}

// endLoading removes a session's loading flag. Safe for ids that were
// deleted while the request was in flight.
func (s *Store) endLoading(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loading, id)
}

func (s *Store) findLocked(id string) *domain.Session {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}
