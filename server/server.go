package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/responder"
	"github.com/0xERR0R/nsecguard/util"
)

// ErrNotRunning is returned by Stop if the server was not started or is already stopped
var ErrNotRunning = errors.New("server is not running")

// Server accepts client connections and serves them with a fixed pool of workers.
// Accepted connections are handed over through a channel with the capacity of the pool,
// the acceptor blocks while all workers are busy and the channel is full.
type Server struct {
	cfg       config.Server
	responder responder.Responder

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	conns    chan net.Conn
	wg       sync.WaitGroup
}

func logger() *logrus.Entry {
	return log.PrefixedLog("server")
}

// NewServer creates a server answering requests with the responder chain
func NewServer(cfg config.Server, res responder.Responder) *Server {
	return &Server{
		cfg:       cfg,
		responder: res,
	}
}

// Start binds the listener and starts the acceptor and the workers
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return errors.New("server is already running")
	}

	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", net.JoinHostPort("", strconv.Itoa(int(s.cfg.Port))))
	if err != nil {
		return fmt.Errorf("can't listen on port %d: %w", s.cfg.Port, err)
	}

	ctx, cancel := context.WithCancel(ctx)

	s.listener = listener
	s.cancel = cancel
	s.conns = make(chan net.Conn, s.cfg.Workers)

	logger().Info("responder chain:")
	responder.LogResponderConfig(s.responder, logger())

	for i := uint(0); i < s.cfg.Workers; i++ {
		s.wg.Add(1)

		go s.work(ctx, s.conns)
	}

	s.wg.Add(1)

	go s.accept(ctx, listener, s.conns)

	logger().Infof("server is up and running on %s with %d workers", listener.Addr(), s.cfg.Workers)

	return nil
}

// Stop closes the listener. Idle workers exit, running sessions are not interrupted.
// Stop waits for all sessions to finish until the context is done.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()

	if s.listener == nil {
		s.mu.Unlock()

		return ErrNotRunning
	}

	logger().Info("stopping server")

	s.cancel()
	err := s.listener.Close()
	s.listener = nil

	s.mu.Unlock()

	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("sessions still running: %w", ctx.Err())
	}

	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("can't close listener: %w", err)
	}

	return nil
}

// Addr returns the listener address or nil if the server isn't running
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	return s.listener.Addr()
}

func (s *Server) accept(ctx context.Context, listener net.Listener, conns chan net.Conn) {
	defer s.wg.Done()

	// the acceptor is the only sender
	defer close(conns)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}

			logger().Warnf("can't accept connection: %v", err)

			continue
		}

		if !util.CtxSend(ctx, conns, conn) {
			conn.Close()

			return
		}
	}
}

func (s *Server) work(ctx context.Context, conns <-chan net.Conn) {
	defer s.wg.Done()

	for conn := range conns {
		s.serve(ctx, conn)
	}
}
