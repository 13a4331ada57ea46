package cart

import (
	"sync"

	"github.com/jrsteele09/go-storefront/session"
)

// Cache maps session id -> variant id -> quantity. Entries are refreshed on
// every product page view and reset when the session logs in or out, so they
// are never read across sessions. Between refreshes they may be stale if the
// cart changed elsewhere.
type Cache struct {
	lock    sync.RWMutex
	entries map[string]map[string]int
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]map[string]int)}
}

// Listener resets a session's entries on login, logout, hydration and
// eviction. Register it with session.Registry.OnStore.
func (c *Cache) Listener() session.Listener {
	return func(store *session.Store, event session.Event) {
		switch event {
		case session.EventLogin, session.EventLogout, session.EventHydrated, session.EventEvicted:
			c.Reset(store.ID())
		}
	}
}

// Quantity returns the cached quantity for variantID
func (c *Cache) Quantity(sessionID, variantID string) (int, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	qty, ok := c.entries[sessionID][variantID]
	return qty, ok
}

// Replace swaps the whole map for a session
func (c *Cache) Replace(sessionID string, quantities map[string]int) {
	cp := make(map[string]int, len(quantities))
	for k, v := range quantities {
		cp[k] = v
	}
	c.lock.Lock()
	c.entries[sessionID] = cp
	c.lock.Unlock()
}

func (c *Cache) Set(sessionID, variantID string, qty int) {
	c.lock.Lock()
	defer c.lock.Unlock()
	m, ok := c.entries[sessionID]
	if !ok {
		m = make(map[string]int)
		c.entries[sessionID] = m
	}
	m[variantID] = qty
}

func (c *Cache) Reset(sessionID string) {
	c.lock.Lock()
	delete(c.entries, sessionID)
	c.lock.Unlock()
}
