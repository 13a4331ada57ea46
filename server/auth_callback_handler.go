package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

const msgLoginFailed = "Google sign-in failed. Please try again."

// GoogleLoginHandler starts the authorization-code flow for this session
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.google == nil {
			redirectWithError(w, r, RouteLogin, "Google sign-in is not configured.")
			return
		}
		authURL, err := s.google.Begin(sessionFrom(r).ID(), safeReturnURL(r.FormValue("return")))
		if err != nil {
			log.Err(err).Msg("Failed to start Google sign-in")
			redirectWithError(w, r, RouteLogin, msgLoginFailed)
			return
		}
		redirectSuccess(w, r, authURL)
	}
}

// OAuthCallbackHandler finishes the Google flow and trades the verified ID
// token for storefront tokens
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.google == nil {
			redirectWithError(w, r, RouteLogin, "Google sign-in is not configured.")
			return
		}

		state := r.FormValue("state")
		code := r.FormValue("code")
		if errorParam := r.FormValue("error"); errorParam != "" {
			log.Warn().Str("error", errorParam).Str("description", r.FormValue("error_description")).Msg("Google authorization failed")
			redirectWithError(w, r, RouteLogin, msgLoginFailed)
			return
		}
		if code == "" || state == "" {
			redirectWithError(w, r, RouteLogin, "Missing code or state parameter")
			return
		}

		store := sessionFrom(r)
		result, err := s.google.Complete(r.Context(), store.ID(), state, code)
		if err != nil {
			log.Err(err).Msg("Google callback rejected")
			redirectWithError(w, r, RouteLogin, msgLoginFailed)
			return
		}

		if err := s.account.LoginWithGoogle(r.Context(), s.requester(r), store, result.IDToken); err != nil {
			redirectWithError(w, r, RouteLogin, userMessage(r, err, msgLoginFailed))
			return
		}
		// A signed-in session never keeps the id it had before sign-in
		store = s.sessions.Rotate(store)
		s.SetSessionCookie(w, r, store.ID())
		log.Info().Str("email", result.Email).Msg("Signed in with Google")
		redirectSuccess(w, r, safeReturnURL(result.ReturnURL))
	}
}
