package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"github.com/stayfix/stayfix/internal/auth"
	"github.com/stayfix/stayfix/internal/dashboard"
	"github.com/stayfix/stayfix/internal/employee"
	"github.com/stayfix/stayfix/internal/notification"
	"github.com/stayfix/stayfix/internal/notificationprofile"
	"github.com/stayfix/stayfix/internal/orgunit"
	"github.com/stayfix/stayfix/internal/reminder"
	"github.com/stayfix/stayfix/internal/residencetitle"
	"github.com/stayfix/stayfix/internal/transport"
	"github.com/stayfix/stayfix/internal/transport/rest"
	"github.com/stayfix/stayfix/internal/transport/swagger"
	"github.com/stayfix/stayfix/internal/user"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	app, err := newApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := app.Logger

	if _, err := swagger.Load(context.Background()); err != nil {
		lg.Error("openapi document is invalid", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	setupRoutes(router, app)

	var worker *reminder.Worker
	if cfg.Reminder.Enabled {
		worker, err = reminder.NewWorker(app.Scanner, cfg.Reminder.Schedule, lg)
		if err != nil {
			lg.Error("failed to schedule reminders", "error", err)
			os.Exit(1)
		}
		worker.Start()
		lg.Info("next reminder scan", "at", worker.Next())
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
		if worker != nil {
			if err := worker.Stop(ctx); err != nil {
				lg.Error("Reminder worker stop error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("Server failed to start", "error", err)
			_ = app.Close()
			os.Exit(1)
		}
	}

	if err := app.Close(); err != nil {
		lg.Error("Shutdown error", "error", err)
	}
	lg.Info("Server stopped")
}

func setupRoutes(router *chi.Mux, app *application) {
	base := transport.NewBaseHandler(app.Logger)

	health := rest.NewHealthHandler(app.DB.DB)
	if app.Redis != nil {
		health.WithCheck("redis", func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		})
	}

	cfg := app.Config
	opts := rest.Options{AllowedOrigins: cfg.Server.Origins()}
	if cfg.Observability.Metrics.Enabled {
		opts.Metrics = app.Metrics
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}

	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:              health,
		Auth:                auth.NewHandler(base, app.Auth),
		User:                user.NewHandler(base, app.Users),
		OrgUnit:             orgunit.NewHandler(base, app.OrgUnits),
		Notification:        notification.NewHandler(base, app.Rules),
		ResidenceTitle:      residencetitle.NewHandler(base, app.ResidenceTitles),
		Employee:            employee.NewHandler(base, app.Employees),
		NotificationProfile: notificationprofile.NewHandler(base, app.NotificationProfile),
		Dashboard:           dashboard.NewHandler(base, app.Dashboard),
	}, opts, app.Logger)
}
