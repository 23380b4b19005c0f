package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ReadHeaderTimeout bounds reading request headers.
const ReadHeaderTimeout = 10 * time.Second

// Server runs an http.Server with explicit Start and Stop, for lifecycle hooks.
type Server struct {
	config     Config
	server     *http.Server
	addr       net.Addr
	onServeErr func(error)
}

// NewServer creates a Server. onServeErr, when not nil, is called if serving fails after Start.
func NewServer(handler http.Handler, cfg Config, onServeErr func(error)) (*Server, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	cfg.SetDefaults()

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &Server{
		config: cfg,
		server: &http.Server{ //nolint:exhaustruct // only relevant fields needed
			Addr:              cfg.Address,
			Handler:           handler,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		onServeErr: onServeErr,
	}, nil
}

// Addr returns the bound address once started, or nil.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Start listens and serves in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	listenCfg := net.ListenConfig{} //nolint:exhaustruct // zero-value defaults are fine

	listener, err := listenCfg.Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		slog.Error("parameter server failed to listen", "address", s.server.Addr, "error", err)

		return fmt.Errorf("%w: %w", ErrListenFailed, err)
	}

	s.addr = listener.Addr()

	slog.Info("parameter server started", "address", s.addr.String())

	go func() {
		serveErr := s.server.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("parameter server stopped serving", "error", serveErr)

			if s.onServeErr != nil {
				s.onServeErr(serveErr)
			}
		}
	}()

	return nil
}

// Stop shuts the server down gracefully. Without a deadline on ctx it waits at most
// DefaultShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, DefaultShutdownTimeout)
		defer cancel()
	}

	slog.Info("parameter server stopping")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShutdownFailed, err)
	}

	return nil
}
