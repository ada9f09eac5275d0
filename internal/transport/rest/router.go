package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/bragboard/internal/auth"
	"github.com/frahmantamala/bragboard/internal/shoutout"
	"github.com/frahmantamala/bragboard/internal/transport/middleware"
	"github.com/frahmantamala/bragboard/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes mounts the whole API under /api/v1. Role checks
// happen here for the admin surfaces; department scoping stays inside
// the services.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, allowedOrigins string, authHandler *auth.Handler, userHandler *user.Handler, shoutOutHandler *shoutout.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	roles := auth.NewRoleAuthorization(logger)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public auth surface
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
			sr.Post("/register", userHandler.Register)
		})

		// Everything below requires a valid access token
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", authHandler.Me)
			pr.Patch("/users/me/profile", userHandler.UpdateProfile)

			pr.Route("/employees", func(er chi.Router) {
				er.Use(roles.RequireAdmin())
				er.Get("/", userHandler.ListEmployees)
				er.Delete("/{id}", userHandler.DeleteEmployee)
				er.Patch("/{id}/suspend", userHandler.SuspendEmployee)
			})

			pr.Route("/admins", func(ar chi.Router) {
				ar.Use(roles.RequireSuperadmin())
				ar.Get("/", userHandler.ListAdmins)
				ar.Delete("/{id}", userHandler.DeleteAdmin)
			})

			pr.Route("/security-keys", func(kr chi.Router) {
				kr.Use(roles.RequireAdmin())
				kr.Post("/", userHandler.CreateSecurityKey)
				kr.Get("/", userHandler.ListSecurityKeys)
				kr.Delete("/{id}", userHandler.DeleteSecurityKey)
			})

			pr.Route("/shoutouts", func(shr chi.Router) {
				shr.Post("/", shoutOutHandler.CreateShoutOut)
				shr.Get("/", shoutOutHandler.GetFeed)
				shr.Get("/metrics/me", shoutOutHandler.MyMetrics)
				shr.Post("/{id}/react", shoutOutHandler.React)
				shr.Post("/{id}/comments", shoutOutHandler.AddComment)
				shr.Get("/{id}/comments", shoutOutHandler.ListComments)
			})
		})
	})
}
