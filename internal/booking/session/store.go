package session

import (
	"sync"
	"time"

	"gearbook/pkg/logger"
)

// Store owns the user -> session map. The map has its own lock, independent
// of each session's lock: two rapid clicks from the same user may race on
// insert-if-absent before the session object even exists.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
}

func NewStore(ttl time.Duration, log *logger.Logger) *Store {
	store := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		log:      log,
		stopCh:   make(chan struct{}),
	}

	go store.janitor()

	return store
}

// GetOrCreate returns the user's session, creating it lazily on first use.
func (st *Store) GetOrCreate(userID string) *Session {
	st.mu.RLock()
	s, exists := st.sessions[userID]
	st.mu.RUnlock()
	if exists {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, exists := st.sessions[userID]; exists {
		return s
	}
	s = newSession(userID)
	st.sessions[userID] = s
	return s
}

func (st *Store) Get(userID string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, exists := st.sessions[userID]
	return s, exists
}

func (st *Store) Delete(userID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, userID)
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) Stop() {
	close(st.stopCh)
}

func (st *Store) janitor() {
	interval := st.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := st.EvictIdle(time.Now()); evicted > 0 {
				st.log.Info("Evicted idle booking sessions", "count", evicted)
			}
		case <-st.stopCh:
			return
		}
	}
}

// EvictIdle drops sessions idle longer than the TTL. An abandoned flow would
// otherwise pin its session (and a stale view of the day's slots) forever.
func (st *Store) EvictIdle(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for userID, s := range st.sessions {
		if s.idleFor(now) > st.ttl {
			delete(st.sessions, userID)
			evicted++
		}
	}
	return evicted
}
