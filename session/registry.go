package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxAdopted bounds the stores created for unknown ids before hydration
const maxAdopted = 10000

// Registry owns every visitor Store and performs hydration
type Registry struct {
	repo Repo

	mu       sync.Mutex
	stores   map[string]*Store
	hydrated bool
	restored map[string]Session
	// ids accepted from cookies before hydration, pending confirmation
	adopted map[string]struct{}

	once       sync.Once
	hydratedCh chan struct{}
	listeners  []Listener
}

func NewRegistry(repo Repo) *Registry {
	return &Registry{
		repo:       repo,
		stores:     make(map[string]*Store),
		adopted:    make(map[string]struct{}),
		hydratedCh: make(chan struct{}),
	}
}

// OnStore registers a listener attached to every store the registry hands out.
// Call it before serving requests.
func (r *Registry) OnStore(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
	for _, s := range r.stores {
		s.Subscribe(l)
	}
}

// Hydrate restores persisted sessions and marks every store hydrated. It runs
// once; later calls return immediately. A load failure is logged and
// hydration still completes with empty state.
func (r *Registry) Hydrate(ctx context.Context) {
	r.once.Do(func() {
		restored := map[string]Session{}
		if r.repo != nil {
			loaded, err := r.repo.LoadAll(ctx)
			if err != nil {
				log.Err(err).Msg("Failed to restore persisted sessions, starting empty")
			} else {
				restored = loaded
			}
		}

		r.mu.Lock()
		r.restored = restored
		r.hydrated = true
		pending := make([]*Store, 0, len(r.stores))
		for _, s := range r.stores {
			pending = append(pending, s)
		}
		for id := range restored {
			if _, ok := r.stores[id]; !ok {
				r.stores[id] = r.newStoreLocked(id, false)
				pending = append(pending, r.stores[id])
			}
		}
		// Adopted ids that turned out unknown and were never written are dropped
		var dropped []*Store
		for id := range r.adopted {
			if _, ok := restored[id]; ok {
				continue
			}
			if s, ok := r.stores[id]; ok && !s.isDirty() {
				delete(r.stores, id)
				dropped = append(dropped, s)
			}
		}
		r.adopted = nil
		r.mu.Unlock()

		for _, s := range pending {
			if sess, ok := restored[s.id]; ok {
				s.markHydrated(&sess)
			} else {
				s.markHydrated(nil)
			}
		}
		for _, s := range dropped {
			s.notify(EventEvicted)
		}

		log.Info().Int("restored", len(restored)).Int("dropped", len(dropped)).Msg("Sessions hydrated")
		close(r.hydratedCh)
	})
}

// HydrateAsync starts Hydrate on its own goroutine
func (r *Registry) HydrateAsync(ctx context.Context) {
	go r.Hydrate(ctx)
}

// Hydrated is closed once hydration has completed
func (r *Registry) Hydrated() <-chan struct{} {
	return r.hydratedCh
}

func (r *Registry) HasHydrated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hydrated
}

// Lookup returns the store for id. Before hydration an unknown id is
// accepted, since it may belong to a session that is still being restored;
// hydration drops it again unless it was restored or written to. After
// hydration only known ids are returned.
func (r *Registry) Lookup(id string) (*Store, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[id]; ok {
		s.touch()
		return s, true
	}
	if r.hydrated || len(r.adopted) >= maxAdopted {
		return nil, false
	}
	s := r.newStoreLocked(id, false)
	r.stores[id] = s
	r.adopted[id] = struct{}{}
	return s, true
}

// Rotate moves the state of old to a store under a fresh id and forgets the
// old id. Call it when a visitor signs in so an id issued or planted before
// sign-in never carries the new tokens.
func (r *Registry) Rotate(old *Store) *Store {
	state, hydrated, dirty := old.retire()

	r.mu.Lock()
	id := uuid.NewString()
	s := r.newStoreLocked(id, hydrated)
	s.state = state
	s.dirty = dirty
	if cur, ok := r.stores[old.id]; ok && cur == old {
		delete(r.stores, old.id)
	}
	delete(r.adopted, old.id)
	r.stores[id] = s
	r.mu.Unlock()

	s.writeMu.Lock()
	s.persist(state.clone())
	s.writeMu.Unlock()
	if r.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := r.repo.Delete(ctx, old.id); err != nil {
			log.Err(err).Str("session", shortID(old.id)).Msg("Failed to delete rotated session")
		}
	}
	old.notify(EventEvicted)
	return s
}

// New creates a store under a fresh random id
func (r *Registry) New() *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	s := r.newStoreLocked(id, r.hydrated)
	r.stores[id] = s
	return s
}

// Sweep drops logged-out stores idle for longer than maxIdle, and any store
// idle for longer than maxAge, by which time its cookie and persisted copy
// have expired. A maxAge of zero keeps logged-in stores. It returns how many
// stores were removed.
func (r *Registry) Sweep(maxIdle, maxAge time.Duration) int {
	now := time.Now()
	idleCutoff := now.Add(-maxIdle)
	ageCutoff := now.Add(-maxAge)

	r.mu.Lock()
	if !r.hydrated {
		r.mu.Unlock()
		return 0
	}
	var removed []*Store
	for id, s := range r.stores {
		lastSeen, loggedIn := s.idleSince()
		expired := maxAge > 0 && lastSeen.Before(ageCutoff)
		if (!loggedIn && lastSeen.Before(idleCutoff)) || expired {
			delete(r.stores, id)
			removed = append(removed, s)
		}
	}
	r.mu.Unlock()

	for _, s := range removed {
		if _, loggedIn := s.idleSince(); loggedIn && r.repo != nil {
			ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			if err := r.repo.Delete(ctx, s.id); err != nil {
				log.Err(err).Str("session", shortID(s.id)).Msg("Failed to delete expired session")
			}
			cancel()
		}
		s.notify(EventEvicted)
	}
	return len(removed)
}

// Len returns the number of live stores
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

func (r *Registry) newStoreLocked(id string, hydrated bool) *Store {
	s := newStore(id, r.repo, hydrated)
	for _, l := range r.listeners {
		s.Subscribe(l)
	}
	return s
}
