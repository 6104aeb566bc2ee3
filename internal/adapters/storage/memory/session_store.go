package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

type entry struct {
	transcript domain.Transcript
	expiresAt  time.Time
}

// SessionStore is an in-memory domain.SessionStore. It is NOT persistent and
// is only suitable for development / local mode.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]entry
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = domain.DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[domain.SessionID]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionStore) Create(_ context.Context, transcript domain.Transcript) (domain.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()

	id := domain.SessionID(uuid.NewString())
	s.sessions[id] = entry{transcript: transcript.Clone(), expiresAt: s.now().Add(s.ttl)}
	return id, nil
}

func (s *SessionStore) Load(_ context.Context, id domain.SessionID) (domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	return e.transcript.Clone(), nil
}

func (s *SessionStore) Save(_ context.Context, id domain.SessionID, transcript domain.Transcript) error {
	if id == "" {
		return domain.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = entry{transcript: transcript.Clone(), expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) evictExpiredLocked() {
	now := s.now()
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
