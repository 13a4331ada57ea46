// Package session holds the authenticated state of one storefront visitor:
// tokens, profile, operating mode and the hydration flag.
//
// A Store is the explicit application-context object for a single browser.
// It is mutated only through SetAuth, UpdateSellerApproval and Logout, each
// of which persists the new state through a Repo and then notifies
// subscribers. The Registry owns every Store, restores persisted state on
// startup (Hydrate) and flips HasHydrated exactly once when restoration is
// done, whether or not anything was restored.
package session
