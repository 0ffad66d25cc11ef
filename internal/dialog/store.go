package dialog

import "sync"

// Store keeps per-user dialogue state in memory. Acquire serialises turns for
// one user; operations on distinct users never contend with each other beyond
// the map lookup.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// turnMu is held across a whole message turn; mu guards the fields and is
// taken only for the duration of a single read or write, so InProgress stays
// safe to call from goroutines that do not own the turn.
type entry struct {
	turnMu sync.Mutex
	mu     sync.Mutex
	state  State
	dctx   *Context
}

func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

func (s *Store) entryFor(userID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{state: StateIdle}
		s.entries[userID] = e
	}
	return e
}

// Acquire locks the user's dialogue for the duration of one turn and returns
// the release function. Turns for the same user run strictly one at a time;
// holding the lock across the in-progress check and the dispatch keeps the
// routing decision atomic with the turn it leads to.
func (s *Store) Acquire(userID int64) func() {
	e := s.entryFor(userID)
	e.turnMu.Lock()
	return e.turnMu.Unlock
}

// Get returns the user's current state and context. Absent users are idle.
func (s *Store) Get(userID int64) (State, *Context) {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.dctx
}

// Set records a new state together with its context.
func (s *Store) Set(userID int64, st State, dctx *Context) {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = st
	e.dctx = dctx
}

// Clear resets the user to idle and drops the context. Clearing an already
// idle user is a no-op.
func (s *Store) Clear(userID int64) {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateIdle
	e.dctx = nil
}

// InProgress reports whether the user has an active dialogue.
func (s *Store) InProgress(userID int64) bool {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != StateIdle
}
