package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/facebookgo/atomicfile"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/jrsteele09/go-storefront/internal/errors"
)

const (
	fileKeySalt = "tanmore-session-file"
	nonceSize   = 24
)

var _ Repo = (*FileRepo)(nil)

// FileRepo keeps every session in a single encrypted file that is rewritten
// atomically on each change
type FileRepo struct {
	path string
	key  [32]byte

	lock     sync.Mutex
	sessions map[string]Session
	loaded   bool
}

// NewFileRepo derives the file key from secret. An empty secret still yields
// a stable key, which is only suitable for development.
func NewFileRepo(path, secret string) (*FileRepo, error) {
	r := &FileRepo{
		path:     path,
		sessions: make(map[string]Session),
	}
	kdf := hkdf.New(sha256.New, []byte(secret), []byte(fileKeySalt), []byte("sessions"))
	if _, err := io.ReadFull(kdf, r.key[:]); err != nil {
		return nil, errors.Wrapf(err, "derive session file key")
	}
	return r, nil
}

func (r *FileRepo) LoadAll(_ context.Context) (map[string]Session, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.loadLocked(); err != nil {
		return nil, err
	}
	out := make(map[string]Session, len(r.sessions))
	for id, s := range r.sessions {
		out[id] = s.clone()
	}
	return out, nil
}

func (r *FileRepo) Save(_ context.Context, id string, s Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.loadLocked(); err != nil {
		// A corrupt file is replaced rather than blocking every login
		if !errors.Is(err, errors.ErrSessionCorrupt) {
			return err
		}
	}
	r.sessions[id] = s.clone()
	return r.flushLocked()
}

func (r *FileRepo) Delete(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.loadLocked(); err != nil && !errors.Is(err, errors.ErrSessionCorrupt) {
		return err
	}
	if _, ok := r.sessions[id]; !ok {
		return nil
	}
	delete(r.sessions, id)
	return r.flushLocked()
}

// loadLocked reads the file once. A read error leaves the repo unloaded so a
// later save cannot overwrite sessions it never saw. A corrupt file counts as
// loaded and is replaced by the next save.
func (r *FileRepo) loadLocked() error {
	if r.loaded {
		return nil
	}

	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.loaded = true
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read session file")
	}

	sessions, err := r.open(raw)
	r.loaded = true
	if err != nil {
		return err
	}
	r.sessions = sessions
	return nil
}

func (r *FileRepo) open(raw []byte) (map[string]Session, error) {
	if len(raw) < nonceSize {
		return nil, errors.Wrapf(errors.ErrSessionCorrupt, "session file too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &r.key)
	if !ok {
		return nil, errors.Wrapf(errors.ErrSessionCorrupt, "session file authentication failed")
	}

	sessions := make(map[string]Session)
	if err := json.Unmarshal(plain, &sessions); err != nil {
		return nil, errors.Wrapf(errors.ErrSessionCorrupt, "decode session file: %v", err)
	}
	return sessions, nil
}

func (r *FileRepo) flushLocked() error {
	plain, err := json.Marshal(r.sessions)
	if err != nil {
		return errors.Wrapf(err, "encode sessions")
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return errors.Wrapf(err, "generate nonce")
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &r.key)

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return errors.Wrapf(err, "create session folder")
	}
	f, err := atomicfile.New(r.path, 0o600)
	if err != nil {
		return errors.Wrapf(err, "open session file")
	}
	if _, err := f.Write(sealed); err != nil {
		_ = f.Abort()
		return errors.Wrapf(err, "write session file")
	}
	return errors.Wrapf(f.Close(), "commit session file")
}
