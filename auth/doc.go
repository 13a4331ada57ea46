// Package auth signs visitors in with Google and manages the account actions
// that rewrite the session: mode switching and logout.
//
// Sign-in is an OAuth2 authorization-code flow with PKCE and a nonce. The
// verified Google ID token is then exchanged with the marketplace API for the
// storefront's own access and refresh tokens.
package auth
