package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-storefront/auth/authflowrepo"
	"github.com/jrsteele09/go-storefront/internal/errors"
)

const stateLength = 32

// OidcConfig bundles the provider endpoints, client settings and ID token verifier
type OidcConfig struct {
	OAuth2Config *oauth2.Config
	Verifier     *oidc.IDTokenVerifier
}

// DiscoverGoogle builds an OidcConfig from the issuer's discovery document
func DiscoverGoogle(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (OidcConfig, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return OidcConfig{}, errors.Wrapf(err, "failed to create OIDC provider")
	}
	return OidcConfig{
		OAuth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		Verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// GoogleFlow runs the redirect and callback halves of Google sign-in
type GoogleFlow struct {
	oidc    OidcConfig
	flows   authflowrepo.Repo
	timeout time.Duration
	nowTime func() time.Time
}

type GoogleFlowOption func(*GoogleFlow)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) GoogleFlowOption {
	return func(g *GoogleFlow) {
		g.nowTime = nowFunc
	}
}

func NewGoogleFlow(cfg OidcConfig, flows authflowrepo.Repo, timeout time.Duration, opts ...GoogleFlowOption) *GoogleFlow {
	g := &GoogleFlow{
		oidc:    cfg,
		flows:   flows,
		timeout: timeout,
		nowTime: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Begin records a new flow for sessionID and returns the Google URL to redirect to
func (g *GoogleFlow) Begin(sessionID, returnURL string) (string, error) {
	state := generateRandomString(stateLength)
	nonce := generateRandomString(stateLength)
	verifier := oauth2.GenerateVerifier()

	err := g.flows.Upsert(state, &authflowrepo.AuthFlowState{
		SessionID:    sessionID,
		CodeVerifier: verifier,
		Nonce:        nonce,
		ReturnURL:    returnURL,
		CreatedAt:    g.nowTime(),
	})
	if err != nil {
		return "", err
	}
	g.flows.Sweep(g.nowTime().Add(-g.timeout))

	return g.oidc.OAuth2Config.AuthCodeURL(state,
		oidc.Nonce(nonce),
		oauth2.S256ChallengeOption(verifier),
	), nil
}

// Result is a completed Google sign-in
type Result struct {
	IDToken   string
	Email     string
	ReturnURL string
}

// Complete exchanges code, verifies the ID token and its nonce, and returns
// the raw ID token for the marketplace API. The state is consumed whether or
// not completion succeeds.
func (g *GoogleFlow) Complete(ctx context.Context, sessionID, state, code string) (*Result, error) {
	flow, err := g.flows.Take(state)
	if err != nil {
		return nil, err
	}
	if flow.SessionID != sessionID {
		return nil, errors.Wrapf(errors.ErrInvalidState, "state issued to another session")
	}
	if g.nowTime().Sub(flow.CreatedAt) > g.timeout {
		return nil, errors.Wrapf(errors.ErrInvalidState, "sign-in took too long")
	}

	token, err := g.oidc.OAuth2Config.Exchange(ctx, code, oauth2.VerifierOption(flow.CodeVerifier))
	if err != nil {
		return nil, errors.Wrapf(err, "token exchange failed")
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "no ID token in response")
	}

	idToken, err := g.oidc.Verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "ID token verification failed: %v", err)
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.Wrapf(err, "failed to extract claims")
	}
	if idToken.Nonce != flow.Nonce {
		return nil, errors.ErrInvalidNonce
	}

	return &Result{
		IDToken:   rawIDToken,
		Email:     claims.Email,
		ReturnURL: flow.ReturnURL,
	}, nil
}

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
