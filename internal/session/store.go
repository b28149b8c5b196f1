package session

import (
	"sync"
	"time"
)

// Store keeps sessions in memory keyed by the caller-supplied session key.
// State does not survive a restart; the durable record of a conversation is
// the lead ledger row.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for the key, creating it on first use.
func (st *Store) GetOrCreate(key string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[key]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[key]; ok {
		return s
	}
	now := time.Now()
	s = &Session{
		Key:          key,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	st.sessions[key] = s
	return s
}

// Get returns the session for the key, if one exists.
func (st *Store) Get(key string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[key]
	return s, ok
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
