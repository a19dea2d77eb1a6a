// Package server exposes the wallet session, the generator and the coin
// catalog over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/catalog"
	"github.com/wnt/memeforge/internal/config"
	"github.com/wnt/memeforge/internal/generator"
	"github.com/wnt/memeforge/internal/logger"
	"github.com/wnt/memeforge/internal/wallet"
	"github.com/wnt/memeforge/internal/worker"
)

// StatsProvider reports worker pool statistics
type StatsProvider interface {
	Stats(ctx context.Context) (worker.Stats, error)
}

// Server routes HTTP requests to the session façade, generator and catalog
type Server struct {
	cfg       config.Config
	facade    *wallet.Facade
	source    catalog.Source
	generator *generator.Service
	workers   StatsProvider
	router    *mux.Router
	logger    zerolog.Logger
}

// New creates a server and registers its routes. workers may be nil.
func New(
	cfg config.Config,
	facade *wallet.Facade,
	source catalog.Source,
	gen *generator.Service,
	workers StatsProvider,
	baseLogger zerolog.Logger,
) *Server {
	s := &Server{
		cfg:       cfg,
		facade:    facade,
		source:    source,
		generator: gen,
		workers:   workers,
		router:    mux.NewRouter(),
		logger:    logger.WithComponent(baseLogger, "http_server"),
	}
	s.routes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on cfg.HTTPAddr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.HTTPAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.logRequests, s.recoverPanics, s.injectSession)

	// Views
	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/generator", s.handleGeneratorView).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/explore", s.handleExplore).Methods(http.MethodGet)

	// Wallet session
	r.HandleFunc("/api/session", s.handleSession).Methods(http.MethodGet)
	r.HandleFunc("/api/wallets", s.handleWallets).Methods(http.MethodGet)
	r.HandleFunc("/api/session/connect", s.handleConnect).Methods(http.MethodPost)
	r.HandleFunc("/api/session/disconnect", s.handleDisconnect).Methods(http.MethodPost)

	// Generator
	r.HandleFunc("/api/tokenomics", s.handleTokenomics).Methods(http.MethodGet)
	r.HandleFunc("/api/coins", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/api/coins/{id}", s.handleGetCoin).Methods(http.MethodGet)
	r.HandleFunc("/api/coins/{id}/deploy", s.handleDeploy).Methods(http.MethodPost)
	r.HandleFunc("/api/coins/{id}/like", s.handleLike).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}", s.handleGetTask).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", s.handleCancelTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}
