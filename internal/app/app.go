// Package app assembles the recruitment reporting service: configuration,
// logger, store, pipeline collaborators, router and HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruitcli/internal/analysis"
	"recruitcli/internal/config"
	"recruitcli/internal/fetcher"
	"recruitcli/internal/infrastructure"
	"recruitcli/internal/mailer"
	custommw "recruitcli/internal/middleware"
	"recruitcli/internal/services"
	"recruitcli/internal/store"
	handlers "recruitcli/internal/transport/http"
)

// Application is the dependency container for one running instance.
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *store.Store
	Reports  *services.ReportService
	Settings *services.SettingsService
	Router   *chi.Mux
	Server   *http.Server
}

// New builds the application from configuration. The store is opened and
// initialized; the caller owns Close.
func New(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := st.Init(context.Background()); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	a := &Application{
		Config: cfg,
		Logger: logger,
		Store:  st,
		Reports: services.NewReportService(
			st,
			fetcher.New(cfg.Source, logger),
			analysis.New(cfg.Analysis, logger),
			mailer.New(cfg.Mail, logger),
			cfg.Source.ProjectName,
			cfg.Mail.Subject,
			logger,
		),
		Settings: services.NewSettingsService(st, logger),
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.RequestLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))

	reportHandler := handlers.NewReportHandler(a.Reports, a.Logger)
	settingsHandler := handlers.NewSettingsHandler(a.Settings, a.Logger)
	healthHandler := handlers.NewHealthHandler()

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		r.Route("/reports", func(r chi.Router) {
			r.Post("/generate", reportHandler.Generate)
			r.Post("/send", reportHandler.Send)
			r.Get("/latest", reportHandler.Latest)
		})

		r.Get("/logs", reportHandler.Logs)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/{key}", settingsHandler.Get)
			r.Put("/{key}", settingsHandler.Update)
		})
	})

	// Outside the logging chain; scrapes are frequent and uninteresting.
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start runs the HTTP server until the listener fails or Stop is called.
// A listener error cancels the supplied context so main can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) {
	a.Logger.InfoContext(ctx, "Application starting",
		slog.Int("port", a.Config.Server.Port),
		slog.String("database", a.Config.Database.Path))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("store close error: %w", err)
	}

	infrastructure.CloseLogFile()
	return nil
}
