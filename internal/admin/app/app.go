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

	httpapi "github.com/aussiebroadwan/lunch/internal/admin/http"
	"github.com/aussiebroadwan/lunch/internal/admin/service"
	"github.com/aussiebroadwan/lunch/pkg/slogx"
)

const (
	// BuildVersion is overridden at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the admin service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	backend *backend

	adminService     *service.AdminService
	approvalService  *service.ApprovalService
	bootstrapService *service.BootstrapService
	reconcileService *service.ReconcileService
	keyRotation      *keyRotator // nil unless enabled on the local backend

	server *http.Server
	router *httpapi.Router
}

func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "lunch-admin",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	b, err := openBackend(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	app.backend = b
	app.logger.Info("backend ready", "backend", cfg.Backend)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.reconcileService.Start()
	if app.keyRotation != nil {
		app.keyRotation.Start()
	}

	app.logger.Info("admin service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains HTTP requests, stops the background loops and closes
// the backend.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down admin service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.reconcileService.Stop()
	if app.keyRotation != nil {
		app.keyRotation.Stop()
	}

	if err := app.backend.Close(); err != nil {
		app.logger.Error("error closing backend", "error", err)
		return err
	}

	app.logger.Info("admin service stopped")
	return nil
}

func (app *Application) initServices() {
	st, idp := app.backend.store, app.backend.identity

	app.adminService = &service.AdminService{Store: st, Identity: idp}
	app.approvalService = &service.ApprovalService{Store: st}
	app.bootstrapService = &service.BootstrapService{
		Store:    st,
		Identity: idp,
		Token:    app.cfg.BootstrapToken,
	}
	app.reconcileService = service.NewReconcileService(
		st,
		idp,
		app.logger,
		app.cfg.ReconcileInterval,
		app.cfg.ReconcileRepair,
	)

	if app.backend.local != nil && app.cfg.KeyRotationInterval > 0 {
		app.keyRotation = newKeyRotator(app.backend.local, app.cfg.KeyRotationInterval, app.logger)
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.cfg.Backend,
		BuildVersion,
		app.backend.store,
		app.backend.identity,
		app.logger,
	)

	router.AdminService = app.adminService
	router.ApprovalService = app.approvalService
	router.BootstrapService = app.bootstrapService
	router.ReconcileService = app.reconcileService
	if app.backend.local != nil {
		router.SignIn = app.backend.local
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
