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

	httpapi "github.com/classhubhq/classhub/internal/authz/http"
	"github.com/classhubhq/classhub/internal/authz/service"
	"github.com/classhubhq/classhub/internal/authz/store"
	"github.com/classhubhq/classhub/internal/authz/store/drivers/sqlite"
	"github.com/classhubhq/classhub/pkg/jwtx"
	"github.com/classhubhq/classhub/pkg/mailx"
	"github.com/classhubhq/classhub/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the authorization service together: store, services,
// mail, housekeeping and the HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db   store.Store
	mail mailx.Sender

	directoryService    *service.DirectoryService
	tenantService       *service.TenantService
	roleService         *service.RoleService
	permissionService   *service.PermissionService
	guard               *service.Guard
	inviteService       *service.InviteService
	memberService       *service.MemberService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authz-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("AUTHZ_SESSION_SECRET is required")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initMail(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("authz service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown drains in-flight requests, stops housekeeping and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authz service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("authz service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied")
	return nil
}

func (app *Application) initMail() error {
	switch app.cfg.MailProvider {
	case "postmark":
		sender, err := mailx.NewPostmarkSender(mailx.PostmarkConfig{
			ServerToken:  app.cfg.PostmarkToken,
			AccountToken: app.cfg.PostmarkAccount,
			SenderEmail:  app.cfg.MailSender,
			ReplyToEmail: app.cfg.MailReplyTo,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize postmark: %w", err)
		}
		app.mail = sender
	case "dev":
		app.mail = mailx.NewDevSender(app.logger)
	default:
		return fmt.Errorf("unknown mail provider %q", app.cfg.MailProvider)
	}
	return nil
}

func (app *Application) initServices() {
	app.permissionService = &service.PermissionService{Store: app.db}
	app.guard = &service.Guard{Store: app.db, Perms: app.permissionService}

	app.directoryService = &service.DirectoryService{Store: app.db}
	app.tenantService = &service.TenantService{Store: app.db, Guard: app.guard}
	app.roleService = &service.RoleService{Store: app.db, Guard: app.guard}
	app.memberService = &service.MemberService{Store: app.db, Guard: app.guard}
	app.inviteService = &service.InviteService{Store: app.db, Guard: app.guard, Mail: app.mail}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	verifier := jwtx.NewHS256Verifier([]byte(app.cfg.SessionSecret), app.cfg.SessionIssuer)

	router := httpapi.NewRouter(verifier, BuildVersion, app.db, app.logger)
	router.DirectoryService = app.directoryService
	router.TenantService = app.tenantService
	router.RoleService = app.roleService
	router.MemberService = app.memberService
	router.InviteService = app.inviteService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
