package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/auth"
	"github.com/jrsteele09/go-storefront/cart"
	"github.com/jrsteele09/go-storefront/catalog"
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/internal/metrics"
	"github.com/jrsteele09/go-storefront/media"
	"github.com/jrsteele09/go-storefront/reviews"
	"github.com/jrsteele09/go-storefront/seller"
	"github.com/jrsteele09/go-storefront/session"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"

	// maxUploadMemory is how much of a multipart form is held in memory before
	// spilling to temp files
	maxUploadMemory = 32 << 20
)

// Services are the long-lived dependencies built by main
type Services struct {
	API      *apiclient.Client
	Sessions *session.Registry
	// Google is nil when no Google client is configured; the login page then
	// explains that sign-in is unavailable
	Google  *auth.GoogleFlow
	Metrics *metrics.Recorder
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config

	api      *apiclient.Client
	sessions *session.Registry
	google   *auth.GoogleFlow
	metrics  *metrics.Recorder

	account  *auth.Account
	catalog  *catalog.Service
	cart     *cart.Service
	reviews  *reviews.Service
	seller   *seller.Service
	drafts   *seller.Drafts
	uploader *media.Uploader

	categories *categoryCache
}

func New(config config.Config, svc Services) (*Server, error) {
	if svc.API == nil || svc.Sessions == nil {
		return nil, fmt.Errorf("[Server New] api client and session registry are required")
	}
	if svc.Metrics == nil {
		svc.Metrics = metrics.New()
	}

	s := &Server{
		env:        config.GetEnv(),
		mux:        http.NewServeMux(),
		config:     config,
		api:        svc.API,
		sessions:   svc.Sessions,
		google:     svc.Google,
		metrics:    svc.Metrics,
		account:    auth.NewAccount(),
		catalog:    catalog.NewService(),
		cart:       cart.NewService(cart.NewCache()),
		reviews:    reviews.NewService(),
		seller:     seller.NewService(),
		drafts:     seller.NewDrafts(),
		uploader:   media.NewUploader(svc.API),
		categories: newCategoryCache(5 * time.Minute),
	}

	// Per-session caches follow the session lifecycle
	s.sessions.OnStore(s.cart.Cache().Listener())
	s.sessions.OnStore(s.drafts.Listener())

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colourMethod(method), path)
}

func logError(method, path, error string) {
	log.Warn().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+error+ResetColor)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
