// Package server wires the kasir server together: storage, migrations, the
// product catalog, services and the HTTP gateway, with graceful shutdown on
// SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/kasir/internal/buildinfo"
	"github.com/dmitrijs2005/kasir/internal/logging"
	"github.com/dmitrijs2005/kasir/internal/server/catalog"
	"github.com/dmitrijs2005/kasir/internal/server/config"
	"github.com/dmitrijs2005/kasir/internal/server/httpapi"
	"github.com/dmitrijs2005/kasir/internal/server/metrics"
	"github.com/dmitrijs2005/kasir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/kasir/internal/server/services"
)

// logOutput is where the JSON logger writes.
var logOutput io.Writer = os.Stdout

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

// NewApp opens storage, applies migrations, loads the catalog and builds
// the HTTP server. The caller must Run the app so the database is closed.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, c.LogLevel)

	db, rm, err := repomanager.Open(ctx, c.StorageDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(ctx, c, logger, db, rm)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return app, nil
}

func build(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	cat, err := catalog.Load(ctx, c.CatalogSource, catalog.S3Options{
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog load error: %w", err)
	}
	logger.Info(ctx, "Catalog loaded", "source", c.CatalogSource, "products", cat.Len())

	m := metrics.New()

	srv := httpapi.NewServer(c.HTTPAddr, logger, httpapi.Options{
		Users:          services.NewUserService(db, rm, c, m),
		Transactions:   services.NewTransactionService(db, rm, cat, m),
		Reports:        services.NewReportService(db, rm),
		DB:             db,
		Metrics:        m,
		LoginRateLimit: c.LoginRateLimit,
		LoginRateBurst: c.LoginRateBurst,
		Version:        buildinfo.Version,
	})

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageDriver, "version", buildinfo.Version)

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "HTTP server error", "error", err)
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "Error closing database", "error", cerr)
		err = errors.Join(err, cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
