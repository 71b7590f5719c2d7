package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps sessions in memory and forgets them after idleTTL without use.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewStore creates an empty session store.
func NewStore(idleTTL time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{sessions: make(map[uuid.UUID]*session), idleTTL: idleTTL, now: now}
}

func (s *Store) create() *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	sess := newSession(s.now())
	s.sessions[sess.id] = sess
	return sess
}

func (s *Store) get(id uuid.UUID) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweepLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}

// lastSeen is only written under s.mu, so reading it here is safe.
func (s *Store) expired(sess *session, now time.Time) bool {
	return s.idleTTL > 0 && now.Sub(sess.lastSeen) > s.idleTTL
}
