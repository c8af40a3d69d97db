package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/riskscore/internal/policy"
	"github.com/dshills/riskscore/internal/survey"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no session exists for an ID.
var ErrNotFound = errors.New("session not found")

// Store keeps sessions in memory, keyed by ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

// Create starts and registers a new session.
func (st *Store) Create(s *survey.Survey, p policy.Policy) *Session {
	sess := New(s, p)
	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess
}

// Get returns the session with the given ID.
func (st *Store) Get(id string) (*Session, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("session.Get: %w: %q", ErrNotFound, id)
	}
	st.mu.RLock()
	sess, ok := st.sessions[key]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session.Get: %w: %q", ErrNotFound, id)
	}
	return sess, nil
}

// Delete removes a session.
func (st *Store) Delete(id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("session.Delete: %w: %q", ErrNotFound, id)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[key]; !ok {
		return fmt.Errorf("session.Delete: %w: %q", ErrNotFound, id)
	}
	delete(st.sessions, key)
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
