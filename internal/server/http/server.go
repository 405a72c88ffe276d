// Package http exposes the application over a JSON REST API: registration
// and login, profile management, articles and threaded comments. Routing is
// built on gin; errors are translated from apperr kinds to HTTP statuses.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/inkwell-app/inkwell/internal/logging"
	"github.com/inkwell-app/inkwell/internal/server/config"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	logger  logging.Logger
	handler *Handler
	cfg     config.HTTPServer
}

func NewServer(cfg config.HTTPServer, l logging.Logger, h *Handler) *Server {
	return &Server{
		address: cfg.Address,
		logger:  l.With("module", "http_server"),
		handler: h,
		cfg:     cfg,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.handler.InitRoutes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
