// Package server initializes and runs the application: it loads config,
// picks the storage backend, applies migrations and serves the HTTP API
// until interrupted.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkwell-app/inkwell/internal/logging"
	"github.com/inkwell-app/inkwell/internal/server/config"
	hs "github.com/inkwell-app/inkwell/internal/server/http"
	"github.com/inkwell-app/inkwell/internal/server/repositories/repomanager"
	"github.com/inkwell-app/inkwell/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.RepositoryManager
	server  *hs.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := newRepositoryManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := services.NewUserService(manager, cfg)
	as := services.NewArticleService(manager)
	cs := services.NewCommentService(manager)

	handler := hs.NewHandler(us, as, cs, logger)
	server := hs.NewServer(cfg.HTTPServer, logger, handler)

	return &App{config: cfg, logger: logger, manager: manager, server: server}, nil
}

// newRepositoryManager picks the backend from the DSN: the literal "memory"
// selects the in-memory stores, anything else is treated as a PostgreSQL DSN.
func newRepositoryManager(cfg *config.Config) (repomanager.RepositoryManager, error) {
	if cfg.DatabaseDSN == "memory" {
		return repomanager.NewInMemoryRepositoryManager(), nil
	}

	return repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	if err := app.manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	defer func() {
		if err := app.manager.Close(); err != nil {
			app.logger.Error(ctx, "storage close error", "error", err)
		}
	}()

	return app.server.Run(ctx)
}
