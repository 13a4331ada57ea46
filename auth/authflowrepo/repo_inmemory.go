package authflowrepo

import (
	"time"

	"sync"

	"github.com/jrsteele09/go-storefront/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu     sync.Mutex
	states map[string]AuthFlowState
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		states: make(map[string]AuthFlowState),
	}
}

func (r *InMemoryRepo) Upsert(state string, authState *AuthFlowState) error {
	if state == "" {
		return errors.Wrapf(errors.ErrInvalidInput, "state cannot be empty")
	}
	if authState == nil {
		return errors.Wrapf(errors.ErrInvalidInput, "authState cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state] = *authState
	return nil
}

func (r *InMemoryRepo) Take(state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, errors.ErrInvalidState
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	authState, exists := r.states[state]
	if !exists {
		return nil, errors.ErrInvalidState
	}
	delete(r.states, state)
	return &authState, nil
}

func (r *InMemoryRepo) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for k, s := range r.states {
		if s.CreatedAt.Before(cutoff) {
			delete(r.states, k)
			removed++
		}
	}
	return removed
}
