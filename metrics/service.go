package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/log"
)

// Service exposes the registry over HTTP
type Service struct {
	cfg    config.Metrics
	router *chi.Mux
	server *httpServer

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	done     chan error
}

// NewService creates the HTTP service with the prometheus endpoint on the configured path
func NewService(cfg config.Metrics) *Service {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	configureCorsHandler(router)

	router.Handle(
		cfg.Path,
		promhttp.InstrumentMetricHandler(reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)

	return &Service{
		cfg:    cfg,
		router: router,
		server: newHTTPServer("metrics", router),
	}
}

func configureCorsHandler(router *chi.Mux) {
	crs := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Accept"},
		MaxAge:         300,
	})
	router.Use(crs.Handler)
}

// Router returns the service's router
func (s *Service) Router() chi.Router {
	return s.router
}

// Start binds the configured address and serves in background
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return errors.New("metrics service is already running")
	}

	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("can't listen on %s: %w", s.cfg.Addr, err)
	}

	ctx, cancel := context.WithCancel(ctx)

	s.listener = listener
	s.cancel = cancel
	s.done = make(chan error, 1)

	go func() {
		err := s.server.Serve(ctx, listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		s.done <- err
	}()

	log.PrefixedLog("metrics").Infof("%s service is up and running on http://%s%s", s.server, listener.Addr(), s.cfg.Path)

	return nil
}

// Addr returns the listener address or nil if the service isn't running
func (s *Service) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	return s.listener.Addr()
}

// Stop closes the HTTP server
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	s.cancel()
	s.listener = nil

	select {
	case err := <-s.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
