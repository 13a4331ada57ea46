package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/internal/metrics"
	"github.com/jrsteele09/go-storefront/session"
)

const RefreshPath = "/api/auth/refresh"

var _ Requester = (*Session)(nil)

// Session binds the client to one visitor's session store. A nil store makes
// anonymous calls with no refresh.
type Session struct {
	client    *Client
	store     *session.Store
	userAgent string
}

// For returns a Requester acting for store. userAgent is forwarded upstream.
func (c *Client) For(store *session.Store, userAgent string) *Session {
	return &Session{client: c, store: store, userAgent: userAgent}
}

func (s *Session) Do(ctx context.Context, req Request, out any) error {
	body, err := s.Raw(ctx, req)
	if err != nil {
		return err
	}
	return decodeData(body, out)
}

func (s *Session) Raw(ctx context.Context, req Request) ([]byte, error) {
	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}
	a := attempt{req: req, body: payload, userAgent: s.userAgent}
	if s.store != nil {
		a.token = s.store.Snapshot().AccessToken
	}

	body, err := s.client.send(ctx, a)
	if err == nil || s.store == nil || !errors.Is(err, errors.ErrUnauthorized) {
		return body, err
	}

	token, refreshErr := s.refresh(ctx)
	if refreshErr != nil {
		s.store.Logout()
		return nil, errors.Join(err, refreshErr)
	}

	// replay exactly once; a second 401 is the caller's problem
	a.token = token
	return s.client.send(ctx, a)
}

// refresh exchanges the stored refresh token and writes the new pair into the
// session, keeping user and mode
func (s *Session) refresh(ctx context.Context) (string, error) {
	current := s.store.Snapshot()
	if current.RefreshToken == "" {
		s.client.metrics.ObserveRefresh(metrics.RefreshSkipped)
		return "", fmt.Errorf("%w: %w", errors.ErrRefreshFailed, errors.ErrNoRefreshToken)
	}

	body, err := s.client.send(ctx, attempt{
		req: Request{
			Method: http.MethodPost,
			Path:   RefreshPath,
			Device: true,
		},
		body:      refreshBody(current.RefreshToken),
		userAgent: s.userAgent,
	})
	if err != nil {
		s.client.metrics.ObserveRefresh(metrics.RefreshFailed)
		return "", fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err)
	}

	access := gjson.GetBytes(body, "data.access_token")
	if access.Type != gjson.String || access.Str == "" {
		s.client.metrics.ObserveRefresh(metrics.RefreshFailed)
		return "", fmt.Errorf("%w: %w", errors.ErrRefreshFailed, errors.ErrBadEnvelope)
	}

	var user session.User
	if current.User != nil {
		user = *current.User
	}
	if approved := gjson.GetBytes(body, "data.user.is_seller_profile_approved"); approved.IsBool() {
		user.IsSellerProfileApproved = approved.Bool()
	}

	refreshToken := current.RefreshToken
	if rotated := gjson.GetBytes(body, "data.refresh_token").String(); rotated != "" {
		refreshToken = rotated
	}

	s.store.SetAuth(session.Auth{
		AccessToken:  access.Str,
		RefreshToken: refreshToken,
		User:         user,
		Mode:         current.Mode,
	})
	s.client.metrics.ObserveRefresh(metrics.RefreshSucceeded)
	log.Debug().Str("user", user.ID).Msg("access token refreshed")
	return access.Str, nil
}

func refreshBody(token string) []byte {
	b, _ := encodeBody(map[string]string{"refresh_token": token})
	return b
}
