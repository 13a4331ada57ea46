package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const persistTimeout = 5 * time.Second

// Store is the session of one visitor
type Store struct {
	id   string
	repo Repo

	// writeMu orders mutate+persist pairs so the repo never sees writes out of order
	writeMu sync.Mutex

	mu        sync.RWMutex
	state     Session
	hydrated  bool
	dirty     bool
	retired   bool
	lastSeen  time.Time
	listeners map[int]Listener
	nextSubID int
}

func newStore(id string, repo Repo, hydrated bool) *Store {
	return &Store{
		id:        id,
		repo:      repo,
		state:     Empty(),
		hydrated:  hydrated,
		lastSeen:  time.Now(),
		listeners: make(map[int]Listener),
	}
}

// ID returns the identifier the store is persisted under
func (s *Store) ID() string {
	return s.id
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.state.clone()
	c.HasHydrated = s.hydrated
	return c
}

// HasHydrated reports whether persisted state has been restored
func (s *Store) HasHydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// SetAuth unconditionally replaces tokens, user and mode and marks the session logged in
func (s *Store) SetAuth(a Auth) {
	mode := a.Mode
	if !mode.Valid() {
		mode = ModeCustomer
	}
	user := a.User

	s.write(func(cur *Session) Event {
		event := EventTokensRefreshed
		switch {
		case !cur.IsLoggedIn:
			event = EventLogin
		case cur.Mode != mode:
			event = EventModeSwitched
		}
		*cur = Session{
			AccessToken:  a.AccessToken,
			RefreshToken: a.RefreshToken,
			User:         &user,
			Mode:         mode,
			IsLoggedIn:   true,
		}
		return event
	})
}

// UpdateSellerApproval patches the approval flag of the current user. No-op without a user.
func (s *Store) UpdateSellerApproval(approved bool) {
	s.write(func(cur *Session) Event {
		if cur.User == nil {
			return 0
		}
		u := *cur.User
		u.IsSellerProfileApproved = approved
		cur.User = &u
		return EventApprovalChanged
	})
}

// Logout clears every field to its default
func (s *Store) Logout() {
	s.write(func(cur *Session) Event {
		*cur = Empty()
		return EventLogout
	})
}

// Subscribe registers l for future events and returns a function removing it
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Store) idleSince() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen, s.state.IsLoggedIn
}

// write applies mutate under the state lock, persists the result and notifies
// listeners. A zero Event from mutate means nothing changed.
func (s *Store) write(mutate func(cur *Session) Event) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	event := mutate(&s.state)
	if event == 0 {
		s.mu.Unlock()
		return
	}
	s.dirty = true
	snapshot := s.state.clone()
	s.mu.Unlock()

	s.persist(snapshot)
	s.notify(event)
}

func (s *Store) persist(state Session) {
	if s.repo == nil || s.retired {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if state.IsLoggedIn {
		err = s.repo.Save(ctx, s.id, state)
	} else {
		err = s.repo.Delete(ctx, s.id)
	}
	if err != nil {
		log.Err(err).Str("session", shortID(s.id)).Msg("Failed to persist session")
	}
}

func (s *Store) notify(event Event) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(s, event)
	}
}

func (s *Store) isDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// retire empties the store and stops it persisting. Requests still holding it
// see a logged-out session. It returns the state held before.
func (s *Store) retire() (state Session, hydrated, dirty bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	state, hydrated, dirty = s.state, s.hydrated, s.dirty
	s.state = Empty()
	s.retired = true
	return state, hydrated, dirty
}

// markHydrated flips the hydration flag once, adopting restored state unless
// the store was written to before restoration finished
func (s *Store) markHydrated(restored *Session) bool {
	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return false
	}
	if restored != nil && !s.dirty {
		s.state = restored.clone()
		s.state.HasHydrated = false
	}
	s.hydrated = true
	s.mu.Unlock()

	s.notify(EventHydrated)
	return true
}

// shortID keeps session identifiers out of logs in full
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
