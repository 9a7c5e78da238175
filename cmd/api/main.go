package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bentheitguy/printgate/internal/auth"
	"github.com/bentheitguy/printgate/internal/clients"
	"github.com/bentheitguy/printgate/internal/config"
	"github.com/bentheitguy/printgate/internal/handlers"
	middlewareCustom "github.com/bentheitguy/printgate/internal/middleware"
	"github.com/bentheitguy/printgate/internal/routes"
	"github.com/bentheitguy/printgate/internal/services"
	pkghttp "github.com/bentheitguy/printgate/pkg/http"
	pkglogger "github.com/bentheitguy/printgate/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Attempt tracking is in-memory only. Bans clear on restart; that is the
	// recovery path for a locked-out operator.
	tracker := auth.NewAttemptTracker()
	verifier := auth.NewVerifier(cfg.Auth.AppPassword)

	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs: cfg.Auth.TimingDelayRandomMs,
	})

	auditLogger := pkglogger.NewAuditLogger(logger)

	loginService := services.NewLoginService(verifier, tracker, timingDelay, logger, auditLogger)

	// Upstream clients
	orchestrator := clients.NewOrchestratorClient(cfg.Orchestrator, logger)
	printer := clients.NewPrinterClient(cfg.Printer, logger)

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	healthHandler := handlers.NewHealthHandler(time.Now())
	authHandler := handlers.NewAuthHandler(loginService, ipConfig, int(cfg.Auth.SessionMaxAge.Seconds()))
	webhookHandler := handlers.NewWebhookHandler(orchestrator)
	workflowHandler := handlers.NewWorkflowHandler(orchestrator)
	jobsHandler := handlers.NewJobsHandler(printer)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	loginRateLimit := middlewareCustom.DefaultLoginRateLimit()
	loginRateLimit.RequestsPerMinute = cfg.Auth.LoginBurstPerMinute

	// Setup router
	// chi's RealIP middleware is deliberately absent: it rewrites RemoteAddr
	// from forwarded headers without any trust check, which would let a
	// direct client pick its own attempt bucket. ExtractClientIP resolves
	// forwarded headers behind the trusted-proxy gate instead.
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, healthHandler, authHandler, webhookHandler, workflowHandler, jobsHandler, loginRateLimit, ipConfig)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
