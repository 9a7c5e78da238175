package routes

import (
	"github.com/bentheitguy/printgate/internal/auth"
	"github.com/bentheitguy/printgate/internal/handlers"
	"github.com/bentheitguy/printgate/internal/middleware"
	pkghttp "github.com/bentheitguy/printgate/pkg/http"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	webhookHandler *handlers.WebhookHandler,
	workflowHandler *handlers.WorkflowHandler,
	jobsHandler *handlers.JobsHandler,
	loginRateLimit middleware.RateLimitConfig,
	ipConfig *pkghttp.IPConfig,
) {
	// Public routes - no session required
	router.Get("/api/health", healthHandler.Health)
	router.Get("/api/check", authHandler.Check)
	router.With(middleware.RateLimitByIP(loginRateLimit, ipConfig)).Post("/api/login", authHandler.Login)
	router.Post("/api/logout", authHandler.Logout)

	// Protected routes - session cookie required
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession())

		r.Post("/api/webhook", webhookHandler.Relay)
		r.Get("/api/workflow-status/{executionID}", workflowHandler.Status)

		r.Get("/api/jobs", jobsHandler.List)
		r.Post("/api/jobs/print", jobsHandler.Print)
		r.Delete("/api/jobs/{jobID}", jobsHandler.Delete)
		r.Delete("/api/jobs", jobsHandler.DeleteAll)
	})
}
