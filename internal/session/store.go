package session

import (
	"context"
	"sync"
	"time"

	"github.com/ghzx55/graderevive/pkg/errors"
)

// Store persists sessions for the lifetime of a run. Implementations are
// safe for concurrent use. Save fails with ErrSessionConflict when another
// caller saved the session after s was loaded.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Snapshot
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore keeps snapshots in process. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Snapshot),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	snap, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.ErrSessionNotFound
	}

	now := m.now()
	if !m.expired(snap, now) {
		return FromSnapshot(snap), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A Save may have refreshed the session since the read lock was released.
	snap, ok = m.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	if !m.expired(snap, now) {
		return FromSnapshot(snap), nil
	}

	delete(m.sessions, id)
	return nil, errors.ErrSessionNotFound
}

func (m *MemoryStore) expired(snap Snapshot, now time.Time) bool {
	return m.ttl > 0 && now.Sub(snap.UpdatedAt) > m.ttl
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, exists := m.sessions[s.ID]
	if err := checkVersion(stored.Version, exists, s.Version); err != nil {
		return err
	}

	snap := s.Snapshot()
	snap.Version++
	m.sessions[s.ID] = snap
	s.Version = snap.Version
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return errors.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// checkVersion compares the stored version with the one a session was
// loaded at. A never-saved session has version 0.
func checkVersion(stored int64, exists bool, loaded int64) error {
	switch {
	case !exists && loaded == 0:
		return nil
	case !exists:
		return errors.ErrSessionNotFound
	case stored != loaded:
		return errors.ErrSessionConflict
	}
	return nil
}
