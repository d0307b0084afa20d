package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/stayfix/stayfix/internal/auth"
	"github.com/stayfix/stayfix/internal/dashboard"
	"github.com/stayfix/stayfix/internal/employee"
	"github.com/stayfix/stayfix/internal/notification"
	"github.com/stayfix/stayfix/internal/notificationprofile"
	"github.com/stayfix/stayfix/internal/orgunit"
	"github.com/stayfix/stayfix/internal/residencetitle"
	"github.com/stayfix/stayfix/internal/telemetry"
	"github.com/stayfix/stayfix/internal/transport/middleware"
	"github.com/stayfix/stayfix/internal/transport/swagger"
	"github.com/stayfix/stayfix/internal/user"
)

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Health              *HealthHandler
	Auth                *auth.Handler
	User                *user.Handler
	OrgUnit             *orgunit.Handler
	Notification        *notification.Handler
	ResidenceTitle      *residencetitle.Handler
	Employee            *employee.Handler
	NotificationProfile *notificationprofile.Handler
	Dashboard           *dashboard.Handler
}

type Options struct {
	AllowedOrigins []string
	Metrics        *telemetry.Metrics
	MetricsPath    string
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	if h.Health == nil {
		h.Health = NewHealthHandler(nil)
	}

	// Apply global middleware
	router.Use(corsHandler(opts.AllowedOrigins))
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, opts.Metrics.Handler())
	}

	// Serve the OpenAPI document at root (outside API prefix)
	router.Get("/openapi.yml", swagger.DocumentHandler)
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			if h.User != nil {
				pr.Get("/me", h.User.GetCurrentUser)
			}

			if h.Dashboard != nil {
				pr.Get("/dashboard/stats", h.Dashboard.Stats)
			}

			if h.OrgUnit != nil {
				pr.Route("/org-units", func(or chi.Router) {
					or.Get("/", h.OrgUnit.List)
					or.Post("/", h.OrgUnit.Create)
					or.Patch("/", h.OrgUnit.Update)
					or.Delete("/", h.OrgUnit.Delete)
					or.Get("/tree", h.OrgUnit.Tree)
					or.Post("/reorder", h.OrgUnit.Reorder)
				})
			}

			if h.Notification != nil {
				pr.Route("/notification-rules", func(nr chi.Router) {
					nr.Get("/", h.Notification.ListRules)
					nr.Post("/", h.Notification.SaveRule)
					nr.Delete("/", h.Notification.DeleteRule)
					nr.Get("/grouped", h.Notification.GroupedRules)
				})
			}

			if h.ResidenceTitle != nil {
				pr.Route("/residence-titles", func(tr chi.Router) {
					tr.Get("/", h.ResidenceTitle.List)
					tr.Post("/", h.ResidenceTitle.Create)
					tr.Patch("/", h.ResidenceTitle.Update)
					tr.Delete("/", h.ResidenceTitle.Delete)
				})
			}

			if h.Employee != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Get("/", h.Employee.List)
					er.Post("/", h.Employee.Create)
					er.Patch("/", h.Employee.Update)
					er.Delete("/", h.Employee.Delete)
					er.Get("/export", h.Employee.Export)
					er.Post("/documents", h.Employee.UploadDocuments)
					er.Delete("/documents", h.Employee.RemoveDocument)
				})
			}

			if h.NotificationProfile != nil {
				pr.Route("/notification-profiles", func(pr chi.Router) {
					pr.Get("/", h.NotificationProfile.List)
					pr.Post("/", h.NotificationProfile.Create)
					pr.Patch("/", h.NotificationProfile.Update)
					pr.Delete("/", h.NotificationProfile.Delete)
				})
			}
		})
	})
}
