package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/auth"
	"github.com/jrsteele09/go-storefront/auth/authflowrepo"
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/internal/metrics"
	"github.com/jrsteele09/go-storefront/server"
	"github.com/jrsteele09/go-storefront/session"
)

const (
	sweepInterval = 10 * time.Minute
	// Logged-out sessions idle this long are dropped from memory
	sessionIdleLimit = time.Hour
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c.GetEnv())
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeRepo, err := sessionRepo(c)
	if err != nil {
		return err
	}
	defer closeRepo()

	sessions := session.NewRegistry(repo)
	recorder := metrics.New()
	api := apiclient.New(c.GetAPIBaseURL(),
		apiclient.WithHTTPClient(&http.Client{Timeout: c.GetAPITimeout()}),
		apiclient.WithDevice(c.GetPlatform(), c.GetDeviceFingerprint()),
		apiclient.WithMetrics(recorder),
	)

	handler, err := server.New(c, server.Services{
		API:      api,
		Sessions: sessions,
		Google:   googleFlow(ctx, c),
		Metrics:  recorder,
	})
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	// Listeners are registered by server.New, so restore sessions afterwards
	sessions.HydrateAsync(ctx)
	go sweepSessions(ctx, sessions, c.GetMaxSessionAge())

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func setupLogging(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// sessionRepo builds the configured session persistence and a func to release it
func sessionRepo(c config.SessionConfig) (session.Repo, func(), error) {
	switch c.GetSessionBackend() {
	case config.SessionBackendMemory:
		return session.NewInMemoryRepo(), func() {}, nil
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
			DB:       c.GetRedisDB(),
		})
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Err(err).Msg("Failed to close redis client")
			}
		}
		return session.NewRedisRepo(client, c.GetRedisKeyPrefix(), c.GetMaxSessionAge()), closeFn, nil
	default:
		repo, err := session.NewFileRepo(c.GetSessionFile(), c.GetSessionSecret())
		if err != nil {
			return nil, nil, fmt.Errorf("session file repo: %w", err)
		}
		return repo, func() {}, nil
	}
}

// googleFlow discovers Google's endpoints. Sign-in is disabled rather than
// fatal when no client is configured or discovery fails.
func googleFlow(ctx context.Context, c config.Config) *auth.GoogleFlow {
	if c.GetGoogleClientID() == "" {
		log.Warn().Msg("GOOGLE_CLIENT_ID not set, Google sign-in disabled")
		return nil
	}
	discoverCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	oidcConfig, err := auth.DiscoverGoogle(discoverCtx, c.GetGoogleIssuer(), c.GetGoogleClientID(), c.GetGoogleClientSecret(), c.GetBaseURL()+server.RouteCallback)
	if err != nil {
		log.Err(err).Msg("Google discovery failed, Google sign-in disabled")
		return nil
	}
	return auth.NewGoogleFlow(oidcConfig, authflowrepo.NewInMemoryRepo(), c.GetAuthFlowTimeout())
}

func sweepSessions(ctx context.Context, sessions *session.Registry, maxAge time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(sessionIdleLimit, maxAge); n > 0 {
				log.Debug().Int("dropped", n).Msg("Swept idle sessions")
			}
		}
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
