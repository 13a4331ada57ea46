// Package apitest runs a fake marketplace API for package tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/go-storefront/apiclient"
)

// Call is one request the fake received
type Call struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

// Server is an httptest server with canned responses keyed by mux pattern
type Server struct {
	*httptest.Server
	mux *http.ServeMux

	lock  sync.Mutex
	calls []Call
}

func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{mux: http.NewServeMux()}
	s.Server = httptest.NewServer(http.HandlerFunc(s.record))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) record(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	call := Call{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.Body)
	}
	s.lock.Lock()
	s.calls = append(s.calls, call)
	s.lock.Unlock()

	s.mux.ServeHTTP(w, r)
}

// Handle registers a handler for a "METHOD /path" pattern
func (s *Server) Handle(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, h)
}

// JSON registers a fixed status and raw JSON body for pattern
func (s *Server) JSON(pattern string, status int, body string) {
	s.Handle(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Data registers a 200 response wrapping v in the {data} envelope
func (s *Server) Data(pattern string, v any) {
	b, err := json.Marshal(map[string]any{"data": v})
	if err != nil {
		panic(err)
	}
	s.JSON(pattern, http.StatusOK, string(b))
}

// Calls returns every request received so far
func (s *Server) Calls() []Call {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the requests matching method and path
func (s *Server) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Client returns an API client pointed at the fake
func (s *Server) Client() *apiclient.Client {
	return apiclient.New(s.URL)
}
