package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jkirker/Page-Exec-Timer/internal/annotate"
	"github.com/jkirker/Page-Exec-Timer/internal/config"
	"github.com/jkirker/Page-Exec-Timer/internal/errors"
	"github.com/jkirker/Page-Exec-Timer/internal/logfields"
	"github.com/jkirker/Page-Exec-Timer/internal/metrics"
)

// Components carries the collaborators the server wires into its routes.
// Optional fields may be nil.
type Components struct {
	Handlers    *Handlers
	Annotator   *annotate.Annotator
	Recorder    metrics.Recorder
	PromHandler http.Handler
}

// Server owns the HTTP listener and route table.
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	comps      Components
	mchain     func(http.Handler) http.Handler
}

// New builds the server around the shared middleware chain.
func New(cfg *config.Config, comps Components) *Server {
	return &Server{
		cfg:    cfg,
		comps:  comps,
		mchain: Chain(slog.Default(), errors.NewHTTPErrorAdapter(slog.Default()), comps.Recorder),
	}
}

// routes builds the route table. The annotator wraps the page handler only.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	page := http.Handler(http.HandlerFunc(s.comps.Handlers.HandlePage))
	if s.comps.Annotator != nil {
		page = s.comps.Annotator.Middleware(page)
	}
	mux.Handle("/", s.mchain(page))

	mux.Handle("/health", s.mchain(http.HandlerFunc(s.comps.Handlers.HandleHealthCheck)))
	mux.Handle("/healthz", s.mchain(http.HandlerFunc(s.comps.Handlers.HandleHealthCheck)))
	mux.Handle("/ready", s.mchain(http.HandlerFunc(s.comps.Handlers.HandleReadiness)))
	mux.Handle("/readyz", s.mchain(http.HandlerFunc(s.comps.Handlers.HandleReadiness)))
	mux.Handle("/api/status", s.mchain(http.HandlerFunc(s.comps.Handlers.HandleStatus)))

	if s.comps.PromHandler != nil {
		mux.Handle("/metrics", s.comps.PromHandler)
	}

	return mux
}

// Start binds the configured address and begins serving. Binding happens
// before the goroutine launches so startup failures surface immediately.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Server.Addr(), err)
	}
	return s.startWithListener(ctx, ln)
}

func (s *Server) startWithListener(_ context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", logfields.Error(err))
		}
	}()

	slog.Info("HTTP server started", logfields.Addr(ln.Addr().String()))
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	slog.Info("HTTP server stopped")
	return nil
}
