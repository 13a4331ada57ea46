package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront/guard"
	"github.com/jrsteele09/go-storefront/session"
)

const (
	hydrationWait     = 5 * time.Second
	msgSessionLoading = "Your session is still loading. Please try again."
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the visitor's *session.Store
const ContextKeySession ContextKey = "session"

// SessionMiddleware attaches the visitor's session store to the request,
// issuing a new session cookie when the browser has none or an unknown one
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var store *session.Store
		if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil && cookie.Value != "" {
			store, _ = s.sessions.Lookup(cookie.Value)
		}
		if store == nil {
			store = s.sessions.New()
			s.SetSessionCookie(w, r, store.ID())
		}

		ctx := context.WithValue(r.Context(), ContextKeySession, store)
		next(w, r.WithContext(ctx))
	}
}

// GuardMiddleware redirects requests the session may not make. Navigations
// are let through until hydration finishes; state-changing requests wait for
// it so they are always checked against the restored session.
func (s *Server) GuardMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if bypassesGuard(r.URL.Path) {
			next(w, r)
			return
		}

		store := sessionFrom(r)
		if !isNavigation(r) && !store.HasHydrated() && !s.awaitHydration(r) {
			http.Error(w, msgSessionLoading, http.StatusServiceUnavailable)
			return
		}
		if target, redirect := guard.Decide(store.Snapshot(), r.URL.Path); redirect {
			log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Str("target", target).Msg("Route guard redirect")
			s.metrics.ObserveRedirect(target)
			redirectSuccess(w, r, target)
			return
		}
		next(w, r)
	}
}

func isNavigation(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

// awaitHydration blocks until sessions are restored, the request ends or
// hydrationWait passes
func (s *Server) awaitHydration(r *http.Request) bool {
	timer := time.NewTimer(hydrationWait)
	defer timer.Stop()
	select {
	case <-s.sessions.Hydrated():
		return true
	case <-r.Context().Done():
		return false
	case <-timer.C:
		return false
	}
}

// bypassesGuard lists paths that stay reachable in every session state so a
// seller can still sign out and assets still load
func bypassesGuard(path string) bool {
	switch {
	case path == RouteLogin, path == RouteMetrics, path == RouteHealthz:
		return true
	case strings.HasPrefix(path, RouteAuthPathPrefix):
		return true
	case strings.HasPrefix(path, "/css/"), strings.HasPrefix(path, "/js/"):
		return true
	}
	return false
}

// sessionFrom returns the store attached by SessionMiddleware
func sessionFrom(r *http.Request) *session.Store {
	store, ok := r.Context().Value(ContextKeySession).(*session.Store)
	if !ok {
		panic("session middleware not installed for " + r.URL.Path)
	}
	return store
}
