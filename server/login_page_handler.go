package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-storefront/auth"
)

// LoginView contains data for rendering the login page
type LoginView struct {
	ReturnURL      string
	GoogleDisabled bool
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r).Snapshot().IsLoggedIn {
			redirectSuccess(w, r, "/")
			return
		}
		view := &LoginView{
			ReturnURL:      safeReturnURL(r.URL.Query().Get("return")),
			GoogleDisabled: s.google == nil,
		}
		data := s.newPage(r, "Log in", view)
		if view.GoogleDisabled && data.Error == "" {
			data.Error = "Google sign-in is not configured."
		}
		render(w, tmpl, http.StatusOK, data)
	}
}

// LogoutHandler signs out through the API; the session is only cleared when
// the API accepts the logout
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.account.Logout(r.Context(), s.requester(r), sessionFrom(r)); err != nil {
			redirectWithError(w, r, "/", userMessage(r, err, "Failed to logout."))
			return
		}
		redirectSuccess(w, r, "/")
	}
}

// BecomeSellerHandler sends logged-in visitors to the seller profile form and
// everyone else to login
func (s *Server) BecomeSellerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r).Snapshot().IsLoggedIn {
			redirectWithError(w, r, RouteLogin+"?return="+url.QueryEscape(RouteSellerProfile), auth.MsgLoginToBecomeSeller)
			return
		}
		redirectSuccess(w, r, RouteSellerProfile)
	}
}

// SwitchModeHandler flips between customer and seller mode
func (s *Server) SwitchModeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := s.account.SwitchMode(r.Context(), s.requester(r), sessionFrom(r))
		if err != nil {
			redirectWithError(w, r, "/", userMessage(r, err, "Could not switch mode."))
			return
		}
		redirectSuccess(w, r, target)
	}
}
