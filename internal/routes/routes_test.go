package routes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"

	"github.com/bentheitguy/printgate/internal/auth"
	"github.com/bentheitguy/printgate/internal/handlers"
	"github.com/bentheitguy/printgate/internal/middleware"
	"github.com/bentheitguy/printgate/internal/models"
	"github.com/bentheitguy/printgate/internal/services"
	pkghttp "github.com/bentheitguy/printgate/pkg/http"
	pkglogger "github.com/bentheitguy/printgate/pkg/logger"
)

const testPassword = "correct-horse-battery"

// newGateRouter wires the full router the way main does, with in-memory
// attempt tracking and stubbed upstream clients. Each call gets a fresh
// tracker so bans do not leak between tests.
func newGateRouter(t *testing.T) chi.Router {
	return newGateRouterWithProxies(t, nil)
}

func newGateRouterWithProxies(t *testing.T, trustedProxies []string) chi.Router {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	service := services.NewLoginService(
		auth.NewVerifier(testPassword),
		auth.NewAttemptTracker(),
		auth.NewTimingDelay(auth.TimingConfig{}),
		logger,
		pkglogger.NewAuditLogger(logger),
	)

	ipConfig := &pkghttp.IPConfig{TrustedProxies: trustedProxies}
	healthHandler := handlers.NewHealthHandler(time.Now())
	authHandler := handlers.NewAuthHandler(service, ipConfig, 86400)
	webhookHandler := handlers.NewWebhookHandler(&handlers.MockWebhookRelay{
		TriggerFunc: func(ctx context.Context, jobURL, status string) (string, error) {
			return "relayed", nil
		},
	})
	workflowHandler := handlers.NewWorkflowHandler(&handlers.MockExecutionFetcher{
		StatusFunc: func(ctx context.Context, executionID string) (*models.ExecutionStatus, error) {
			return &models.ExecutionStatus{ExecutionID: executionID, Status: "success", Progress: 100}, nil
		},
	})
	jobsHandler := handlers.NewJobsHandler(&handlers.MockPrintQueue{
		ListFunc: func(ctx context.Context) ([]models.PrintJob, error) {
			return []models.PrintJob{{ID: "job-1", Status: "success"}}, nil
		},
	})

	router := chi.NewRouter()
	RegisterRoutes(
		router,
		healthHandler,
		authHandler,
		webhookHandler,
		workflowHandler,
		jobsHandler,
		middleware.RateLimitConfig{RequestsPerMinute: 100},
		ipConfig,
	)
	return router
}

func loginBody(password string) string {
	return fmt.Sprintf(`{"password":%q}`, password)
}

func TestRoutes_Health(t *testing.T) {
	apitest.Handler(newGateRouter(t)).
		Get("/api/health").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.status`, "healthy")).
		End()
}

func TestRoutes_LoginIssuesSessionCookie(t *testing.T) {
	apitest.Handler(newGateRouter(t)).
		Post("/api/login").
		JSON(loginBody(testPassword)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.success`, true)).
		CookiePresent(auth.SessionCookieName).
		End()
}

func TestRoutes_LoginWrongPasswordCountsDown(t *testing.T) {
	router := newGateRouter(t)

	apitest.Handler(router).
		Post("/api/login").
		JSON(loginBody("nope")).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal(`$.error`, "Invalid password. 4 attempts remaining before IP ban.")).
		End()

	apitest.Handler(router).
		Post("/api/login").
		JSON(loginBody("nope")).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal(`$.error`, "Invalid password. 3 attempts remaining before IP ban.")).
		End()
}

func TestRoutes_FifthFailureBansTheAddress(t *testing.T) {
	router := newGateRouter(t)

	for i := 0; i < auth.MaxLoginAttempts-1; i++ {
		apitest.Handler(router).
			Post("/api/login").
			JSON(loginBody("nope")).
			Expect(t).
			Status(http.StatusUnauthorized).
			End()
	}

	apitest.Handler(router).
		Post("/api/login").
		JSON(loginBody("nope")).
		Expect(t).
		Status(http.StatusTooManyRequests).
		Assert(jsonpath.Equal(`$.error`, "Too many failed attempts. This IP address is now permanently banned until server restart.")).
		End()

	// The correct password no longer helps once the address is banned.
	apitest.Handler(router).
		Post("/api/login").
		JSON(loginBody(testPassword)).
		Expect(t).
		Status(http.StatusTooManyRequests).
		Assert(jsonpath.Equal(`$.error`, "Too many failed attempts. This IP address is permanently banned until server restart.")).
		End()
}

func TestRoutes_CheckReflectsSession(t *testing.T) {
	router := newGateRouter(t)

	apitest.Handler(router).
		Get("/api/check").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.authenticated`, false)).
		End()

	apitest.Handler(router).
		Get("/api/check").
		Cookie(auth.SessionCookieName, auth.SessionToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.authenticated`, true)).
		End()
}

func TestRoutes_ProtectedEndpointsRequireSession(t *testing.T) {
	router := newGateRouter(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/webhook"},
		{http.MethodGet, "/api/workflow-status/123"},
		{http.MethodGet, "/api/jobs"},
		{http.MethodPost, "/api/jobs/print"},
		{http.MethodDelete, "/api/jobs/job-1"},
		{http.MethodDelete, "/api/jobs"},
	}

	for _, tt := range protected {
		apitest.Handler(router).
			Method(tt.method).
			URL(tt.path).
			Expect(t).
			Status(http.StatusUnauthorized).
			Assert(jsonpath.Equal(`$.error`, "Unauthorized")).
			End()
	}
}

func TestRoutes_SessionUnlocksJobQueue(t *testing.T) {
	apitest.Handler(newGateRouter(t)).
		Get("/api/jobs").
		Cookie(auth.SessionCookieName, auth.SessionToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.success`, true)).
		Assert(jsonpath.Equal(`$.jobs[0].id`, "job-1")).
		End()
}

func TestRoutes_SessionUnlocksWorkflowStatus(t *testing.T) {
	apitest.Handler(newGateRouter(t)).
		Get("/api/workflow-status/4582").
		Cookie(auth.SessionCookieName, auth.SessionToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.execution.executionId`, "4582")).
		Assert(jsonpath.Equal(`$.execution.progress`, float64(100))).
		End()
}

func TestRoutes_LogoutClearsCookie(t *testing.T) {
	apitest.Handler(newGateRouter(t)).
		Post("/api/logout").
		Cookie(auth.SessionCookieName, auth.SessionToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.success`, true)).
		End()
}

// TestRoutes_RotatingSpoofedHeadersStillBanned covers the full stack: with no
// trusted proxies configured, forwarded headers must not influence the attempt
// bucket, so a direct client rotating X-Real-IP values is still banned on the
// fifth failure.
func TestRoutes_RotatingSpoofedHeadersStillBanned(t *testing.T) {
	router := newGateRouter(t)

	for i := 0; i < auth.MaxLoginAttempts-1; i++ {
		apitest.Handler(router).
			Post("/api/login").
			Header("X-Real-IP", fmt.Sprintf("198.51.100.%d", i+1)).
			Header("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1)).
			JSON(loginBody("nope")).
			Expect(t).
			Status(http.StatusUnauthorized).
			End()
	}

	apitest.Handler(router).
		Post("/api/login").
		Header("X-Real-IP", "198.51.100.99").
		JSON(loginBody("nope")).
		Expect(t).
		Status(http.StatusTooManyRequests).
		Assert(jsonpath.Equal(`$.error`, "Too many failed attempts. This IP address is now permanently banned until server restart.")).
		End()
}

// TestRoutes_TrustedProxyForwardedIdentity covers the other side of the gate:
// when the peer is inside a trusted CIDR, X-Forwarded-For picks the attempt
// bucket, so distinct forwarded clients count down independently.
func TestRoutes_TrustedProxyForwardedIdentity(t *testing.T) {
	// httptest requests arrive from 192.0.2.1, so trust that range as the proxy.
	router := newGateRouterWithProxies(t, []string{"192.0.2.0/24"})

	for i := 0; i < auth.MaxLoginAttempts; i++ {
		apitest.Handler(router).
			Post("/api/login").
			Header("X-Forwarded-For", "198.51.100.9").
			JSON(loginBody("nope")).
			Expect(t).
			Status(expectedFailureStatus(i)).
			End()
	}

	// A different forwarded client is untouched by the first one's ban.
	apitest.Handler(router).
		Post("/api/login").
		Header("X-Forwarded-For", "198.51.100.10").
		JSON(loginBody("nope")).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal(`$.error`, "Invalid password. 4 attempts remaining before IP ban.")).
		End()
}

func expectedFailureStatus(attempt int) int {
	if attempt < auth.MaxLoginAttempts-1 {
		return http.StatusUnauthorized
	}
	return http.StatusTooManyRequests
}

func TestRoutes_LoginRateLimitKicksIn(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	service := services.NewLoginService(
		auth.NewVerifier(testPassword),
		auth.NewAttemptTracker(),
		auth.NewTimingDelay(auth.TimingConfig{}),
		logger,
		pkglogger.NewAuditLogger(logger),
	)

	router := chi.NewRouter()
	RegisterRoutes(
		router,
		handlers.NewHealthHandler(time.Now()),
		handlers.NewAuthHandler(service, &pkghttp.IPConfig{}, 86400),
		handlers.NewWebhookHandler(&handlers.MockWebhookRelay{}),
		handlers.NewWorkflowHandler(&handlers.MockExecutionFetcher{}),
		handlers.NewJobsHandler(&handlers.MockPrintQueue{}),
		middleware.RateLimitConfig{RequestsPerMinute: 2},
		&pkghttp.IPConfig{},
	)

	for i := 0; i < 2; i++ {
		apitest.Handler(router).
			Post("/api/login").
			JSON(loginBody(testPassword)).
			Expect(t).
			Status(http.StatusOK).
			End()
	}

	apitest.Handler(router).
		Post("/api/login").
		JSON(loginBody(testPassword)).
		Expect(t).
		Status(http.StatusTooManyRequests).
		Assert(jsonpath.Equal(`$.error`, "Rate limit exceeded")).
		End()
}
