package auth

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/session"
)

const (
	MsgLoginToBecomeSeller = "Please log in to become a seller."
	MsgNotApproved         = "Your seller profile has not been approved yet."
)

type apiUser struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	Email                   string `json:"email"`
	Image                   string `json:"image"`
	IsSellerProfileApproved bool   `json:"is_seller_profile_approved"`
}

type loginResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         apiUser `json:"user"`
}

type switchResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Mode         session.Mode `json:"mode"`
}

// Account performs the API calls that change who the visitor is
type Account struct{}

func NewAccount() *Account {
	return &Account{}
}

// LoginWithGoogle trades a verified Google ID token for storefront tokens and
// starts a customer-mode session
func (a *Account) LoginWithGoogle(ctx context.Context, r apiclient.Requester, store *session.Store, idToken string) error {
	var resp loginResponse
	err := r.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/google",
		Body:   map[string]string{"id_token": idToken},
		Device: true,
	}, &resp)
	if err != nil {
		return errors.Wrapf(err, "google login")
	}
	if resp.AccessToken == "" {
		return errors.Wrapf(errors.ErrBadEnvelope, "login response has no access token")
	}

	store.SetAuth(session.Auth{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User: session.User{
			ID:                      resp.User.ID,
			Name:                    resp.User.Name,
			Email:                   resp.User.Email,
			Image:                   resp.User.Image,
			IsSellerProfileApproved: resp.User.IsSellerProfileApproved,
		},
		Mode: session.ModeCustomer,
	})
	return nil
}

// SwitchMode flips between customer and seller mode and returns the page to
// land on afterwards
func (a *Account) SwitchMode(ctx context.Context, r apiclient.Requester, store *session.Store) (string, error) {
	current := store.Snapshot()
	if !current.IsLoggedIn {
		return "", errors.LoginRequired(MsgLoginToBecomeSeller)
	}
	if !current.SellerApproved() {
		return "", errors.Validation(MsgNotApproved)
	}

	to := session.ModeSeller
	if current.Mode == session.ModeSeller {
		to = session.ModeCustomer
	}

	var resp switchResponse
	if err := apiclient.Post(ctx, r, "/api/user/switch-mode", map[string]string{"to_mode": string(to)}, &resp); err != nil {
		return "", errors.Wrapf(err, "switch mode")
	}
	if resp.AccessToken == "" || !resp.Mode.Valid() {
		return "", errors.Wrapf(errors.ErrBadEnvelope, "switch mode response")
	}

	refreshToken := resp.RefreshToken
	if refreshToken == "" {
		refreshToken = current.RefreshToken
	}
	var user session.User
	if current.User != nil {
		user = *current.User
	}
	store.SetAuth(session.Auth{
		AccessToken:  resp.AccessToken,
		RefreshToken: refreshToken,
		User:         user,
		Mode:         resp.Mode,
	})

	if resp.Mode == session.ModeSeller {
		return "/seller/dashboard", nil
	}
	return "/", nil
}

// Logout tells the API first and clears the session only when it succeeds
func (a *Account) Logout(ctx context.Context, r apiclient.Requester, store *session.Store) error {
	if err := apiclient.Post(ctx, r, "/api/auth/logout", map[string]string{}, nil); err != nil {
		return errors.Wrapf(err, "logout")
	}
	store.Logout()
	return nil
}
