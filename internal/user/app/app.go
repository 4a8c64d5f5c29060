package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	httpapi "github.com/hogwartsschoolofmagic/user/internal/user/http"
	"github.com/hogwartsschoolofmagic/user/internal/user/service"
	"github.com/hogwartsschoolofmagic/user/internal/user/store"
	"github.com/hogwartsschoolofmagic/user/internal/user/store/drivers/postgres"
	"github.com/hogwartsschoolofmagic/user/internal/user/store/drivers/sqlite"
	"github.com/hogwartsschoolofmagic/user/pkg/cryptox"
	"github.com/hogwartsschoolofmagic/user/pkg/httpx"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/jwtx"
	"github.com/hogwartsschoolofmagic/user/pkg/mailx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/text/language"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

const metricsNamespace = "user"

// Application encapsulates the user service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	locales  *i18nx.Bundle
	registry *prometheus.Registry
	mail     mailx.Sender

	// Services
	tokenService    *service.TokenService
	authService     *service.AuthService
	oauth2Service   *service.OAuth2Service
	settingsService *service.SettingsService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	fallback, err := language.Parse(cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale: %w", err)
	}
	if app.locales, err = i18nx.Load(fallback); err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initMail(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// NewLogger builds the service logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "user-service",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// Handler is the HTTP handler of the application.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("user service starting", "port", app.cfg.Port, "version", BuildVersion, "driver", app.cfg.DatabaseDriver)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down user service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("user service stopped")
	return nil
}

// OpenStore opens the configured database driver without migrating it.
func OpenStore(cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		return postgres.NewStore(cfg.DatabaseURL)
	case DriverSQLite:
		return sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile))
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// initDatabase opens the store and applies migrations
func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)

	ctx := context.Background()
	if err := checkSeededRoles(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	accounts, err := db.Users().Count(ctx)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to inspect database: %w", err)
	}
	app.logger.Info("database ready", "accounts", accounts)
	return nil
}

// checkSeededRoles fails when a default role is missing; registration and
// OAuth2 logins cannot assign roles without them.
func checkSeededRoles(ctx context.Context, st store.Store) error {
	roles, err := st.Roles().ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list roles: %w", err)
	}

	have := make(map[string]bool, len(roles))
	for _, r := range roles {
		have[r.Name] = true
	}
	var missing []string
	for name := range domain.DefaultRoles {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("database is missing seeded roles: %s", strings.Join(missing, ", "))
	}
	return nil
}

// accountsGauge reports the stored accounts on every scrape.
func accountsGauge(st store.Store, logger *slog.Logger) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "accounts",
		Help:      "Stored user accounts, soft deleted ones included.",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := st.Users().Count(ctx)
		if err != nil {
			logger.Warn("failed to count accounts", "error", err)
			return 0
		}
		return float64(n)
	})
}

func (app *Application) initMail() error {
	if app.cfg.Mail.Host == "" {
		app.logger.Warn("MAIL_HOST not set, confirmation mails are only logged")
		app.mail = mailx.NewLogSender()
		return nil
	}

	sender, err := mailx.NewSMTPSender(mailx.SMTPConfig{
		Host:     app.cfg.Mail.Host,
		Port:     app.cfg.Mail.Port,
		Username: app.cfg.Mail.Username,
		Password: app.cfg.Mail.Password,
		From:     app.cfg.Mail.From,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mail: %w", err)
	}
	app.mail = sender
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	key, err := jwtx.NewHMACKey([]byte(app.cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("failed to initialize JWT key: %w", err)
	}
	if app.cfg.JWTLeeway > 0 {
		key = key.WithLeeway(app.cfg.JWTLeeway)
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		accountsGauge(app.db, app.logger),
	)
	metrics := service.NewMetrics(metricsNamespace, app.registry)

	app.tokenService = &service.TokenService{Key: key, TTL: app.cfg.JWTExpiration}

	mail := &service.MailService{
		Sender:     app.mail,
		ConfirmURL: app.cfg.Mail.ConfirmURL,
		Metrics:    metrics,
	}
	app.authService = &service.AuthService{
		Store:    app.db,
		Tokens:   app.tokenService,
		Mail:     mail,
		Listener: &service.VerificationMailer{Store: app.db, Mail: mail},
		Metrics:  metrics,
	}

	providers := service.Providers{}
	if app.cfg.OAuth2.GoogleClientID != "" {
		providers[service.RegistrationGoogle] = service.NewGoogleProvider(
			app.cfg.OAuth2.GoogleClientID,
			app.cfg.OAuth2.GoogleClientSecret,
			app.cfg.OAuth2.GoogleRedirectURL,
		)
		app.logger.Info("oauth2 provider enabled", "provider", service.RegistrationGoogle)
	}
	app.oauth2Service = &service.OAuth2Service{
		Store:     app.db,
		Providers: providers,
		Metrics:   metrics,
	}

	app.settingsService = &service.SettingsService{Store: app.db, Locales: app.locales}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	secret := []byte(app.cfg.OAuth2.CookieSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("failed to generate cookie secret: %w", err)
		}
		app.logger.Warn("OAUTH2_COOKIE_SECRET not set, using a random secret for this process")
	}

	trusted, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("failed to parse trusted proxies: %w", err)
	}

	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.locales,
		httpx.NewMetrics(metricsNamespace, app.registry),
		app.logger,
	)

	// Wire services to router
	router.TokenService = app.tokenService
	router.AuthService = app.authService
	router.OAuth2Service = app.oauth2Service
	router.SettingsService = app.settingsService
	router.Requests = httpapi.NewCookieRequestRepository(secret, app.cfg.OAuth2.CookieSecure)
	router.AuthorizedRedirectURIs = app.cfg.OAuth2.AuthorizedRedirectURIs
	router.CORSOrigins = app.cfg.CORSAllowedOrigins
	router.TrustedProxies = trusted
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
