package session

import (
	"context"
	"sync"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	sessions map[string]Session
	lock     sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]Session),
	}
}

func (r *InMemoryRepo) LoadAll(_ context.Context) (map[string]Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	out := make(map[string]Session, len(r.sessions))
	for id, s := range r.sessions {
		out[id] = s.clone()
	}
	return out, nil
}

func (r *InMemoryRepo) Save(_ context.Context, id string, s Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.sessions[id] = s.clone()
	return nil
}

func (r *InMemoryRepo) Delete(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.sessions, id)
	return nil
}
