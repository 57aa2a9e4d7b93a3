// Package server initializes and runs the Lightbox backend.
// It opens the database, applies migrations, builds the upload gateway and the
// services, and runs the REST API next to the gRPC health probe until a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/logging"
	"github.com/dmitrijs2005/lightbox/internal/server/config"
	"github.com/dmitrijs2005/lightbox/internal/server/httpapi"
	"github.com/dmitrijs2005/lightbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lightbox/internal/server/services"
	"github.com/dmitrijs2005/lightbox/internal/server/uploads"

	gs "github.com/dmitrijs2005/lightbox/internal/server/grpc"
)

const secretKeySize = 32

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.HTTPServer
	health *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(secretKeySize)
		if err != nil {
			return nil, fmt.Errorf("secret key error: %w", err)
		}
		c.SecretKey = key
		logger.Warn(ctx, "no secret key configured, using a random one; sessions will not survive a restart")
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	gw, err := uploads.New(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("upload backend error: %w", err)
	}

	svc := httpapi.Services{
		Users:    services.NewUserService(db, rm, c),
		Projects: services.NewProjectService(db, rm, gw, logger),
		Media:    services.NewMediaService(db, rm, gw, logger),
		Featured: services.NewFeaturedService(db, rm),
		Settings: services.NewSettingsService(db, rm, gw, logger),
	}

	opts := httpapi.Options{
		UploadURLPrefix:    c.UploadURLPrefix,
		MaxUploadSize:      c.MaxUploadSize,
		RateLimitPerMinute: c.RateLimitPerMinute,
	}
	if c.UploadBackend == config.UploadBackendLocal || c.UploadBackend == "" {
		opts.UploadDir = c.UploadDir
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		http:   httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, svc, opts),
		health: gs.NewHealthServer(c.EndpointAddrGRPC, logger, db, c.HealthCheckInterval),
	}, nil
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

// runner is implemented by both the HTTP and the gRPC servers.
type runner interface {
	Run(ctx context.Context) error
}

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or one of the servers
// fails. Either way both servers are stopped and the database is closed.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "http", app.http)
	}()
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "grpc", app.health)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
}
