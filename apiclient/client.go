package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/internal/metrics"
)

const (
	HeaderRequestID   = "X-Request-ID"
	HeaderPlatform    = "X-Platform"
	HeaderFingerprint = "X-Device-Fingerprint"

	maxBodyBytes = 8 << 20
)

// Client holds the transport shared by every visitor
type Client struct {
	baseURL     string
	httpClient  *http.Client
	platform    string
	fingerprint string
	metrics     *metrics.Recorder
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDevice sets the X-Platform and X-Device-Fingerprint headers sent on auth calls
func WithDevice(platform, fingerprint string) Option {
	return func(c *Client) {
		c.platform = platform
		c.fingerprint = fingerprint
	}
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		platform:    "web",
		fingerprint: "storefront-web",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one API call. Body is JSON encoded when non-nil.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Device adds the platform and fingerprint headers
	Device bool
}

// Requester is what domain services depend on
type Requester interface {
	// Do sends req and decodes the response's data field into out (when non-nil)
	Do(ctx context.Context, req Request, out any) error
	// Raw sends req and returns the whole response body
	Raw(ctx context.Context, req Request) ([]byte, error)
}

// Upload PUTs body straight to a presigned URL. No bearer token is attached.
func (c *Client) Upload(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return errors.Wrapf(err, "build upload request")
	}
	req.Header.Set("Content-Type", contentType)
	if size >= 0 {
		req.ContentLength = size
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(http.MethodPut, 0, time.Since(start))
		return errors.Wrapf(errors.ErrUploadFailed, "%v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.ObserveUpstream(http.MethodPut, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Wrapf(errors.ErrUploadFailed, "storage returned %d", resp.StatusCode)
	}
	return nil
}

type attempt struct {
	req       Request
	body      []byte
	token     string
	userAgent string
}

// send performs a single round trip and returns the body of a 2xx response
// or an *Error for anything else
func (c *Client) send(ctx context.Context, a attempt) ([]byte, error) {
	target := c.baseURL + a.req.Path
	if len(a.req.Query) > 0 {
		target += "?" + a.req.Query.Encode()
	}

	var body io.Reader
	if a.body != nil {
		body = bytes.NewReader(a.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, a.req.Method, target, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", a.req.Method, a.req.Path)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderRequestID, requestID)
	if a.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.token)
	}
	if a.userAgent != "" {
		httpReq.Header.Set("User-Agent", a.userAgent)
	}
	if a.req.Device {
		httpReq.Header.Set(HeaderPlatform, c.platform)
		httpReq.Header.Set(HeaderFingerprint, c.fingerprint)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveUpstream(a.req.Method, 0, elapsed)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrapf(errors.ErrUnavailable, "%s %s: %v", a.req.Method, a.req.Path, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(a.req.Method, resp.StatusCode, elapsed)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "read %s %s: %v", a.req.Method, a.req.Path, err)
	}

	log.Debug().
		Str("request_id", requestID).
		Str("method", a.req.Method).
		Str("path", a.req.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Status:    resp.StatusCode,
			Message:   extractMessage(data),
			RequestID: requestID,
		}
	}
	return data, nil
}

func encodeBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encode request body")
	}
	return b, nil
}

// decodeData unmarshals the data field of an envelope into out
func decodeData(body []byte, out any) error {
	if out == nil {
		return nil
	}
	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		return errors.Wrapf(errors.ErrBadEnvelope, "missing data field")
	}
	if err := json.Unmarshal([]byte(data.Raw), out); err != nil {
		return errors.Wrapf(errors.ErrBadEnvelope, "%v", err)
	}
	return nil
}
