package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/internal/metrics"
	"github.com/jrsteele09/go-storefront/session"
)

type fakeAPI struct {
	t             *testing.T
	validToken    string
	refreshStatus int
	refreshBody   string
	refreshCalls  atomic.Int32
	protected     atomic.Int32
	lastRefresh   *http.Request
	lastRefreshIn map[string]string
	alwaysReject  bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case apiclient.RefreshPath:
		f.refreshCalls.Add(1)
		f.lastRefresh = r
		f.lastRefreshIn = map[string]string{}
		_ = json.NewDecoder(r.Body).Decode(&f.lastRefreshIn)
		w.WriteHeader(f.refreshStatus)
		_, _ = io.WriteString(w, f.refreshBody)
	case "/api/protected":
		f.protected.Add(1)
		if f.alwaysReject || r.Header.Get("Authorization") != "Bearer "+f.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":{"message":"token expired"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"ok":true}}`)
	default:
		http.NotFound(w, r)
	}
}

func loggedIn(t *testing.T, refresh string) *session.Store {
	t.Helper()
	reg := session.NewRegistry(nil)
	reg.Hydrate(context.Background())
	store := reg.New()
	store.SetAuth(session.Auth{
		AccessToken:  "stale",
		RefreshToken: refresh,
		User:         session.User{ID: "u1", Name: "Karim"},
		Mode:         session.ModeSeller,
	})
	return store
}

func newClient(t *testing.T, h http.Handler) (*apiclient.Client, *metrics.Recorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	m := metrics.New()
	return apiclient.New(srv.URL, apiclient.WithDevice("web", "fp-1"), apiclient.WithMetrics(m)), m
}

type okResult struct {
	OK bool `json:"ok"`
}

func TestSession_RefreshAndReplay(t *testing.T) {
	api := &fakeAPI{
		t:             t,
		validToken:    "fresh",
		refreshStatus: http.StatusOK,
		refreshBody:   `{"data":{"access_token":"fresh","refresh_token":"rotated","user":{"is_seller_profile_approved":true}}}`,
	}
	client, _ := newClient(t, api)
	store := loggedIn(t, "r1")

	var out okResult
	err := apiclient.Get(context.Background(), client.For(store, "test-agent"), "/api/protected", nil, &out)
	require.NoError(t, err)
	require.True(t, out.OK)

	require.Equal(t, int32(1), api.refreshCalls.Load())
	require.Equal(t, int32(2), api.protected.Load())
	require.Equal(t, "r1", api.lastRefreshIn["refresh_token"])
	require.Equal(t, "web", api.lastRefresh.Header.Get(apiclient.HeaderPlatform))
	require.Equal(t, "fp-1", api.lastRefresh.Header.Get(apiclient.HeaderFingerprint))
	require.Equal(t, "test-agent", api.lastRefresh.Header.Get("User-Agent"))

	snap := store.Snapshot()
	require.True(t, snap.IsLoggedIn)
	require.Equal(t, "fresh", snap.AccessToken)
	require.Equal(t, "rotated", snap.RefreshToken)
	require.Equal(t, session.ModeSeller, snap.Mode)
	require.Equal(t, "Karim", snap.User.Name)
	require.True(t, snap.User.IsSellerProfileApproved)
}

func TestSession_RefreshKeepsApprovalWhenAbsent(t *testing.T) {
	api := &fakeAPI{
		validToken:    "fresh",
		refreshStatus: http.StatusOK,
		refreshBody:   `{"data":{"access_token":"fresh"}}`,
	}
	client, _ := newClient(t, api)
	store := loggedIn(t, "r1")
	store.UpdateSellerApproval(true)

	require.NoError(t, apiclient.Get(context.Background(), client.For(store, ""), "/api/protected", nil, nil))
	snap := store.Snapshot()
	require.True(t, snap.User.IsSellerProfileApproved)
	require.Equal(t, "r1", snap.RefreshToken)
}

func TestSession_RefreshFailureLogsOut(t *testing.T) {
	api := &fakeAPI{
		validToken:    "fresh",
		refreshStatus: http.StatusUnauthorized,
		refreshBody:   `{"message":"refresh token revoked"}`,
	}
	client, m := newClient(t, api)
	store := loggedIn(t, "r1")

	err := apiclient.Get(context.Background(), client.For(store, ""), "/api/protected", nil, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.ErrorIs(t, err, errors.ErrRefreshFailed)
	require.Equal(t, "token expired", apiclient.Message(err, "fallback"))

	snap := store.Snapshot()
	require.False(t, snap.IsLoggedIn)
	require.Empty(t, snap.AccessToken)
	require.Equal(t, session.ModeCustomer, snap.Mode)
	require.Equal(t, int32(1), api.protected.Load())

	count, gerr := testCount(m, "storefront_token_refresh_total")
	require.NoError(t, gerr)
	require.Equal(t, 1, count)
}

func TestSession_NoRefreshTokenLogsOutWithoutCall(t *testing.T) {
	api := &fakeAPI{validToken: "fresh", refreshStatus: http.StatusOK}
	client, _ := newClient(t, api)
	store := loggedIn(t, "")

	err := apiclient.Get(context.Background(), client.For(store, ""), "/api/protected", nil, nil)
	require.ErrorIs(t, err, errors.ErrNoRefreshToken)
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.Equal(t, int32(0), api.refreshCalls.Load())
	require.False(t, store.Snapshot().IsLoggedIn)
}

func TestSession_MalformedRefreshBody(t *testing.T) {
	api := &fakeAPI{validToken: "fresh", refreshStatus: http.StatusOK, refreshBody: `{"data":{}}`}
	client, _ := newClient(t, api)
	store := loggedIn(t, "r1")

	err := apiclient.Get(context.Background(), client.For(store, ""), "/api/protected", nil, nil)
	require.ErrorIs(t, err, errors.ErrRefreshFailed)
	require.ErrorIs(t, err, errors.ErrBadEnvelope)
	require.False(t, store.Snapshot().IsLoggedIn)
}

func TestSession_SecondUnauthorizedIsReturnedAsIs(t *testing.T) {
	api := &fakeAPI{
		alwaysReject:  true,
		refreshStatus: http.StatusOK,
		refreshBody:   `{"data":{"access_token":"fresh","refresh_token":"r2"}}`,
	}
	client, _ := newClient(t, api)
	store := loggedIn(t, "r1")

	err := apiclient.Get(context.Background(), client.For(store, ""), "/api/protected", nil, nil)
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.NotErrorIs(t, err, errors.ErrRefreshFailed)

	require.Equal(t, int32(1), api.refreshCalls.Load())
	require.Equal(t, int32(2), api.protected.Load())
	// no logout on the replay's 401
	snap := store.Snapshot()
	require.True(t, snap.IsLoggedIn)
	require.Equal(t, "fresh", snap.AccessToken)
}

func TestSession_Anonymous(t *testing.T) {
	var gotAuth string
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NotEmpty(t, r.Header.Get(apiclient.HeaderRequestID))
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := apiclient.Get(context.Background(), client.For(nil, ""), "/api/feed", nil, nil)
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.NotErrorIs(t, err, errors.ErrRefreshFailed)
	require.Empty(t, gotAuth)
}

func TestSession_EnvelopeAndErrors(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/nested":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"message":"nested message"}}`)
		case "/flat":
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"message":"flat message"}`)
		case "/string":
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"error":"string message"}`)
		case "/html":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `<html>bad gateway</html>`)
		case "/no-envelope":
			_, _ = io.WriteString(w, `{"ok":true}`)
		case "/echo":
			body, _ := io.ReadAll(r.Body)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_, _ = io.WriteString(w, `{"data":`+string(body)+`}`)
		}
	}))
	requester := client.For(nil, "")
	ctx := context.Background()

	tests := []struct {
		path    string
		message string
	}{
		{"/nested", "nested message"},
		{"/flat", "flat message"},
		{"/string", "string message"},
		{"/html", "fallback"},
	}
	for _, tt := range tests {
		t.Run(strings.TrimPrefix(tt.path, "/"), func(t *testing.T) {
			err := apiclient.Get(ctx, requester, tt.path, nil, nil)
			require.Error(t, err)
			require.Equal(t, tt.message, apiclient.Message(err, "fallback"))
		})
	}

	t.Run("missing envelope", func(t *testing.T) {
		var out okResult
		err := apiclient.Get(ctx, requester, "/no-envelope", nil, &out)
		require.ErrorIs(t, err, errors.ErrBadEnvelope)
	})

	t.Run("json body round trip", func(t *testing.T) {
		var out map[string]int
		err := apiclient.Post(ctx, requester, "/echo", map[string]int{"required_quantity": 3}, &out)
		require.NoError(t, err)
		require.Equal(t, 3, out["required_quantity"])
	})

	t.Run("validation message", func(t *testing.T) {
		require.Equal(t, "Review text cannot be empty.", apiclient.Message(errors.Validation("Review text cannot be empty."), "x"))
	})
}

func TestClient_Upload(t *testing.T) {
	var gotType, gotAuth, gotBody string
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		if r.URL.Query().Get("fail") != "" {
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	t.Cleanup(storage.Close)

	client := apiclient.New("http://unused.invalid")
	err := client.Upload(context.Background(), storage.URL+"/bucket/key", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)
	require.Equal(t, "image/png", gotType)
	require.Empty(t, gotAuth)
	require.Equal(t, "png-bytes", gotBody)

	err = client.Upload(context.Background(), storage.URL+"/bucket/key?fail=1", "image/png", strings.NewReader("x"), 1)
	require.ErrorIs(t, err, errors.ErrUploadFailed)
}
