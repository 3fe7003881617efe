package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"docnest/internal/model"
)

// SessionStore holds active sessions keyed by token. Expiry is checked
// lazily on every resolve; an expired session behaves exactly like an
// unknown token and is removed when encountered. There is no background
// sweep here; callers that need bounded memory run Sweep periodically.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]model.Session
}

// NewSessionStore creates an empty store issuing sessions valid for ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]model.Session),
	}
}

// Create issues a new session for the user. The token is an opaque random
// id; nothing about the user can be derived from it.
func (s *SessionStore) Create(userID string) model.Session {
	now := time.Now().UTC()
	sess := model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Resolve looks up a session by token. A session is usable up to and
// including its ExpiresAt instant; past that it is purged and resolution
// fails the same way as for an unknown token.
func (s *SessionStore) Resolve(token string) (model.Session, bool) {
	if token == "" {
		return model.Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return model.Session{}, false
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return model.Session{}, false
	}
	return sess, true
}

// Delete removes a session if present. Deleting an absent token is a
// no-op, which makes logout idempotent.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep drops every expired session and returns how many were removed.
// Intended for an operational ticker, not the request path.
func (s *SessionStore) Sweep() int {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Active reports the number of sessions currently held, including any
// expired ones not yet encountered by Resolve or Sweep.
func (s *SessionStore) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
