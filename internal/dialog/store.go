package dialog

import "sync"

// Store keeps per-user dialogue state. A plain map guarded by one mutex
// covers the map itself; Lock hands out a per-user mutex so that two
// near-simultaneous deliveries from the same user serialize their whole
// read-transition-write cycle, not just individual map operations.
// Different users never contend on each other's locks.
type Store struct {
	mu     sync.Mutex
	states map[int64]State
	locks  map[int64]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		states: make(map[int64]State),
		locks:  make(map[int64]*sync.Mutex),
	}
}

// Lock acquires the per-user lock and returns its release function.
//
//	unlock := store.Lock(userID)
//	defer unlock()
func (s *Store) Lock(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Get returns the stored state; ok is false when the user is idle.
func (s *Store) Get(userID int64) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	return st, ok
}

// Set overwrites the user's state. At most one state per user exists.
func (s *Store) Set(userID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = st
}

// Clear drops the user's state, returning the conversation to idle.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}
