package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/catalog"
	"github.com/jrsteele09/go-storefront/session"
)

// PageData is the model every page template receives
type PageData struct {
	AppName string
	Title   string
	Path    string
	Error   string
	Notice  string
	Nav     Navbar
	Content any
}

// Navbar holds what the header shows for the current session
type Navbar struct {
	Hydrated    bool
	LoggedIn    bool
	IsSeller    bool
	UserName    string
	UserImage   string
	TokenExpiry string

	ShowBecomeSeller bool
	ShowSwitchMode   bool
	SwitchLabel      string

	Categories []catalog.CategoryNode
}

func (s *Server) newPage(r *http.Request, title string, content any) PageData {
	q := r.URL.Query()
	return PageData{
		AppName: s.config.GetAppName(),
		Title:   title,
		Path:    r.URL.Path,
		Error:   q.Get("error"),
		Notice:  q.Get("notice"),
		Nav:     s.navbar(r),
		Content: content,
	}
}

func (s *Server) navbar(r *http.Request) Navbar {
	snap := sessionFrom(r).Snapshot()
	nav := Navbar{
		Hydrated:   snap.HasHydrated,
		LoggedIn:   snap.IsLoggedIn,
		IsSeller:   snap.IsSeller(),
		Categories: s.categories.get(r.Context(), s.catalog, s.requester(r)),
	}
	if snap.User != nil {
		nav.UserName = snap.User.Name
		nav.UserImage = snap.User.Image
	}
	if exp, ok := session.AccessTokenExpiry(snap.AccessToken); ok {
		nav.TokenExpiry = exp.Format(time.RFC3339)
	}

	nav.ShowBecomeSeller = r.URL.Path != RouteSellerProfile && (!snap.IsLoggedIn || !snap.SellerApproved())
	nav.ShowSwitchMode = snap.IsLoggedIn && snap.SellerApproved()
	nav.SwitchLabel = "Switch to Seller Mode"
	if snap.Mode == session.ModeSeller {
		nav.SwitchLabel = "Switch to Customer Mode"
	}
	return nav
}

// categoryCache keeps the category tree for the navigation bar so each page
// does not refetch it
type categoryCache struct {
	ttl time.Duration

	lock    sync.RWMutex
	tree    []catalog.CategoryNode
	fetched time.Time
}

func newCategoryCache(ttl time.Duration) *categoryCache {
	return &categoryCache{ttl: ttl}
}

// get returns the cached tree, refetching when stale. A failed refetch keeps
// serving the previous tree.
func (c *categoryCache) get(ctx context.Context, svc *catalog.Service, r apiclient.Requester) []catalog.CategoryNode {
	c.lock.RLock()
	tree, fresh := c.tree, time.Since(c.fetched) < c.ttl
	c.lock.RUnlock()
	if fresh {
		return tree
	}

	latest, err := svc.CategoryTree(ctx, r)
	if err != nil {
		log.Err(err).Msg("Failed to load category tree")
		return tree
	}
	c.lock.Lock()
	c.tree, c.fetched = latest, time.Now()
	c.lock.Unlock()
	return latest
}
