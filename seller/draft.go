package seller

import (
	"slices"
	"sync"

	"github.com/jrsteele09/go-storefront/session"
)

// Draft is a product being composed in the create form. Media fields hold
// URLs of files that were uploaded when selected.
type Draft struct {
	CategoryPath []string
	Title        string
	Description  string
	Images       []string
	Video        string
	Variants     []VariantInput
}

// SelectCategory picks id at level, dropping any deeper selection
func (d *Draft) SelectCategory(level int, id string) {
	level = max(0, min(level, len(d.CategoryPath)))
	d.CategoryPath = append(d.CategoryPath[:level:level], id)
}

// ResetCategory truncates the path so level becomes the next choice
func (d *Draft) ResetCategory(level int) {
	level = max(0, min(level, len(d.CategoryPath)))
	d.CategoryPath = d.CategoryPath[:level:level]
}

func (d *Draft) AddImages(urls ...string) {
	d.Images = append(d.Images, urls...)
}

// RemoveImage drops the image at i while more than one remains
func (d *Draft) RemoveImage(i int) bool {
	if len(d.Images) <= 1 || i < 0 || i >= len(d.Images) {
		return false
	}
	d.Images = slices.Delete(d.Images, i, i+1)
	return true
}

func (d *Draft) RemoveVideo() {
	d.Video = ""
}

func (d *Draft) AddVariant() {
	d.Variants = append(d.Variants, NewVariantInput())
}

func (d *Draft) SetVariant(i int, v VariantInput) bool {
	if i < 0 || i >= len(d.Variants) {
		return false
	}
	d.Variants[i] = v
	return true
}

func (d *Draft) RemoveVariant(i int) bool {
	if i < 0 || i >= len(d.Variants) {
		return false
	}
	d.Variants = slices.Delete(d.Variants, i, i+1)
	return true
}

func (d Draft) clone() Draft {
	d.CategoryPath = slices.Clone(d.CategoryPath)
	d.Images = slices.Clone(d.Images)
	d.Variants = slices.Clone(d.Variants)
	return d
}

// Drafts keeps one draft per session
type Drafts struct {
	lock   sync.Mutex
	drafts map[string]*Draft
}

func NewDrafts() *Drafts {
	return &Drafts{drafts: make(map[string]*Draft)}
}

// Get returns a copy of the session's draft
func (ds *Drafts) Get(sessionID string) Draft {
	ds.lock.Lock()
	defer ds.lock.Unlock()
	if d, ok := ds.drafts[sessionID]; ok {
		return d.clone()
	}
	return Draft{}
}

// Update applies fn to the session's draft and returns a copy of the result
func (ds *Drafts) Update(sessionID string, fn func(d *Draft)) Draft {
	ds.lock.Lock()
	defer ds.lock.Unlock()
	d, ok := ds.drafts[sessionID]
	if !ok {
		d = &Draft{}
		ds.drafts[sessionID] = d
	}
	fn(d)
	return d.clone()
}

func (ds *Drafts) Discard(sessionID string) {
	ds.lock.Lock()
	delete(ds.drafts, sessionID)
	ds.lock.Unlock()
}

// Listener discards drafts when their session logs in, logs out or is evicted
func (ds *Drafts) Listener() session.Listener {
	return func(store *session.Store, event session.Event) {
		switch event {
		case session.EventLogin, session.EventLogout, session.EventEvicted:
			ds.Discard(store.ID())
		}
	}
}

// Len returns the number of sessions holding a draft
func (ds *Drafts) Len() int {
	ds.lock.Lock()
	defer ds.lock.Unlock()
	return len(ds.drafts)
}
