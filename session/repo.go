package session

import "context"

// Repo persists logged-in sessions keyed by store id
type Repo interface {
	LoadAll(ctx context.Context) (map[string]Session, error)
	Save(ctx context.Context, id string, s Session) error
	Delete(ctx context.Context, id string) error
}
