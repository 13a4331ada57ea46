// Package guard decides where a visitor may go based on their session.
package guard

import (
	"strings"

	"github.com/jrsteele09/go-storefront/session"
)

const (
	LoginPath      = "/login"
	SellerRoot     = "/seller"
	SellerHomePath = "/seller/dashboard"
)

// ProtectedPrefixes require a logged-in session
var ProtectedPrefixes = []string{"/cart", "/checkout", "/seller", "/profile"}

// Decide returns the redirect target for path, or false when the visitor may
// stay. Nothing is decided until the session has hydrated.
func Decide(s session.Session, path string) (string, bool) {
	if !s.HasHydrated {
		return "", false
	}
	if !s.IsLoggedIn {
		if IsProtected(path) {
			return LoginPath, true
		}
		return "", false
	}
	if s.Mode == session.ModeSeller && !underPrefix(path, SellerRoot) {
		return SellerHomePath, true
	}
	return "", false
}

// IsProtected reports whether path lies under one of ProtectedPrefixes
func IsProtected(path string) bool {
	for _, p := range ProtectedPrefixes {
		if underPrefix(path, p) {
			return true
		}
	}
	return false
}

// underPrefix matches whole path segments so /seller does not cover /sellers
func underPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
