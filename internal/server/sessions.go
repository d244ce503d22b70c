package server

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/karolswdev/campuscare/internal/chat"
)

// sessionEntry serialises turns on one session.
type sessionEntry struct {
	mu      sync.Mutex
	session *chat.Session
}

// SessionStore keeps chat sessions in memory with a sliding TTL.
type SessionStore struct {
	cache *cache.Cache
}

// NewSessionStore returns a store that expires sessions idle for ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{cache: cache.New(ttl, ttl/2+time.Minute)}
}

func (s *SessionStore) get(id string) (*sessionEntry, bool) {
	if id == "" {
		return nil, false
	}
	if x, found := s.cache.Get(id); found {
		return x.(*sessionEntry), true
	}
	return nil, false
}

// acquire returns the session for id when it exists and belongs to userID; anything
// else starts a fresh session for userID.
func (s *SessionStore) acquire(id, userID string) *sessionEntry {
	if entry, ok := s.get(id); ok && entry.session.UserID == userID {
		return entry
	}
	entry := &sessionEntry{session: chat.NewSession(userID)}
	s.cache.Set(entry.session.ID, entry, cache.DefaultExpiration)
	return entry
}

// touch restarts the idle timer of a session.
func (s *SessionStore) touch(entry *sessionEntry) {
	s.cache.Set(entry.session.ID, entry, cache.DefaultExpiration)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}
