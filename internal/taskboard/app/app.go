package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/taskboard/internal/taskboard/http"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/postgres"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/otelx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// BuildVersion is overridden at build time via
// -ldflags "-X github.com/aussiebroadwan/taskboard/internal/taskboard/app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// database is a store that can bring its own schema up to date.
type database interface {
	store.Store
	ApplyMigrations() error
}

// Application encapsulates the taskboard service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db           database
	keyManager   *jwtx.KeyManager
	otelShutdown func(context.Context) error

	identityService     *service.IdentityService
	accountService      *service.AccountService
	organizationService *service.OrganizationService
	projectService      *service.ProjectService
	taskService         *service.TaskService
	trackingService     *service.TrackingService
	meetingService      *service.MeetingService
	dashboardService    *service.DashboardService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: newLogger(cfg),
	}

	shutdown, err := otelx.Setup(context.Background(), otelx.Config{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: httpapi.ServiceName,
		Version:     BuildVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.otelShutdown = shutdown

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitKeys(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keyManager = keyManager

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	app.initServices(cryptox.NewHasher(pepper))
	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Migrate brings the configured database up to date and closes it again.
func Migrate(cfg Config) error {
	app := &Application{cfg: cfg, logger: newLogger(cfg)}
	if err := app.initDatabase(); err != nil {
		return err
	}
	return app.db.Close()
}

func newLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: httpapi.ServiceName,
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// Handler exposes the fully wired router.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("taskboard starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, flushes spans and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down taskboard...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.otelShutdown(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("taskboard stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  database
		err error
	)
	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.StoreTimeout)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to reach database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices(hasher *cryptox.Hasher) {
	deps := service.Deps{
		Store:   app.db,
		Timeout: app.cfg.StoreTimeout,
	}

	app.identityService = &service.IdentityService{Deps: deps}
	app.accountService = &service.AccountService{
		Deps:   deps,
		Hasher: hasher,
		Tokens: &service.TokenService{
			Keys:   app.keyManager,
			Issuer: app.cfg.Issuer,
			TTL:    app.cfg.AccessTTL,
		},
	}
	app.organizationService = &service.OrganizationService{Deps: deps}
	app.projectService = &service.ProjectService{Deps: deps}
	app.taskService = &service.TaskService{Deps: deps}
	app.trackingService = &service.TrackingService{Deps: deps}
	app.meetingService = &service.MeetingService{Deps: deps}
	app.dashboardService = &service.DashboardService{Deps: deps}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	limits, err := httpx.LimitsFromEnv()
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(
		app.keyManager,
		BuildVersion,
		app.db,
		app.logger,
		limits,
		app.cfg.CORSOrigins,
	)

	router.IdentityService = app.identityService
	router.AccountService = app.accountService
	router.OrganizationService = app.organizationService
	router.ProjectService = app.projectService
	router.TaskService = app.taskService
	router.TrackingService = app.trackingService
	router.MeetingService = app.meetingService
	router.DashboardService = app.dashboardService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
