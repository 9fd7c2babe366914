// Package server wires the LoveOps sync server together: it opens
// PostgreSQL, applies migrations, builds the services and runs the gRPC
// endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/loveops/internal/logging"
	"github.com/dmitrijs2005/loveops/internal/server/config"
	"github.com/dmitrijs2005/loveops/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/loveops/internal/server/services"

	gs "github.com/dmitrijs2005/loveops/internal/server/grpc"
)

var openPostgres = repomanager.OpenPostgres

// server is what App drives; *gs.GRPCServer in production.
type server interface {
	Run(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logging.ParseLevel(c.LogLevel))

	db, err := openPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, m repomanager.RepositoryManager) (*App, error) {
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	users := services.NewUserService(db, m, c)
	docs := services.NewDataService(db, m)
	photos := services.NewPhotoService(c)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, users, docs, photos),
	}, nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM/SIGQUIT arrives,
// then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "error closing database", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
