package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-processform/pkg/orchestrator"
)

// session owns one page. The mutex serialises events because pages are not
// safe for concurrent use.
type session struct {
	mu   sync.Mutex
	page *orchestrator.Page
	seen time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	max      int
	now      func() time.Time
	sessions map[string]*session
}

func newSessionStore(ttl time.Duration, max int, now func() time.Time) *sessionStore {
	if now == nil {
		now = time.Now
	}
	return &sessionStore{
		ttl:      ttl,
		max:      max,
		now:      now,
		sessions: make(map[string]*session),
	}
}

// create stores page under a fresh id, evicting the least recently used
// session when the store is full. It reports the id and how many sessions were
// evicted.
func (s *sessionStore) create(page *orchestrator.Page) (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := s.pruneLocked()
	for len(s.sessions) >= s.max {
		s.evictOldestLocked()
		evicted++
	}

	id := uuid.NewString()
	s.sessions[id] = &session{page: page, seen: s.now()}
	return id, evicted
}

// get returns the live session for id and refreshes its expiry.
func (s *sessionStore) get(id string) (*session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(sess.seen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	sess.seen = now
	return sess, true
}

func (s *sessionStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *sessionStore) prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked()
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) pruneLocked() int {
	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.seen) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *sessionStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.seen.Before(oldest) {
			oldestID, oldest = id, sess.seen
		}
	}
	delete(s.sessions, oldestID)
}
