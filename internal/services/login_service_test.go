package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bentheitguy/printgate/internal/auth"
	"github.com/bentheitguy/printgate/internal/models"
	"github.com/bentheitguy/printgate/internal/services"
	pkglogger "github.com/bentheitguy/printgate/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoginService(secret string) (*services.LoginService, *auth.AttemptTracker) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	tracker := auth.NewAttemptTracker()
	svc := services.NewLoginService(
		auth.NewVerifier(secret),
		tracker,
		auth.NewTimingDelay(auth.TimingConfig{}), // no delay in tests
		logger,
		pkglogger.NewAuditLogger(logger),
	)
	return svc, tracker
}

func TestLogin_FiveFailuresThenBan(t *testing.T) {
	svc, _ := newLoginService("S3cret!")
	ctx := context.Background()

	// Requests 1-4: 401-class failures counting down 4,3,2,1
	for want := 4; want >= 1; want-- {
		err := svc.Login(ctx, "wrong", "203.0.113.5")
		require.Error(t, err)

		var credErr *services.CredentialError
		require.True(t, errors.As(err, &credErr), "want CredentialError, got %v", err)
		assert.Equal(t, want, credErr.RemainingAttempts)
	}

	// Request 5: the failure that triggers the ban
	err := svc.Login(ctx, "wrong", "203.0.113.5")
	var banErr *services.BannedError
	require.True(t, errors.As(err, &banErr))
	assert.True(t, banErr.NewlyBanned)

	// Request 6: correct password, still banned — ban precedes verification
	err = svc.Login(ctx, "S3cret!", "203.0.113.5")
	require.True(t, errors.As(err, &banErr))
	assert.False(t, banErr.NewlyBanned)
	assert.True(t, errors.Is(err, models.ErrIPBanned))
}

func TestLogin_SuccessLeavesNoRecord(t *testing.T) {
	svc, tracker := newLoginService("S3cret!")

	err := svc.Login(context.Background(), "S3cret!", "198.51.100.2")
	require.NoError(t, err)
	assert.False(t, tracker.Tracked("198.51.100.2"))
}

func TestLogin_SuccessResetsFailureCount(t *testing.T) {
	svc, _ := newLoginService("S3cret!")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = svc.Login(ctx, "wrong", "198.51.100.3")
	}
	require.NoError(t, svc.Login(ctx, "S3cret!", "198.51.100.3"))

	// Fresh count: next failure reports 4 remaining again
	err := svc.Login(ctx, "wrong", "198.51.100.3")
	var credErr *services.CredentialError
	require.True(t, errors.As(err, &credErr))
	assert.Equal(t, 4, credErr.RemainingAttempts)
}

func TestLogin_BanIsPerIdentifier(t *testing.T) {
	svc, _ := newLoginService("S3cret!")
	ctx := context.Background()

	for i := 0; i < auth.MaxLoginAttempts; i++ {
		_ = svc.Login(ctx, "wrong", "10.0.0.1")
	}
	assert.True(t, svc.IsBanned("10.0.0.1"))

	// A different identifier with the correct password is unaffected
	require.NoError(t, svc.Login(ctx, "S3cret!", "10.0.0.2"))
}

func TestLogin_UnconfiguredSecretFailsClosed(t *testing.T) {
	svc, tracker := newLoginService("")

	err := svc.Login(context.Background(), "anything", "192.0.2.8")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSecretNotConfigured))

	// Config errors are not the client's fault and are not counted
	assert.False(t, tracker.Tracked("192.0.2.8"))
}

func TestLogin_BannedClientNeverReachesVerifier(t *testing.T) {
	// With no configured secret the verifier errors on every call, so a
	// BannedError here proves the ban short-circuits before verification.
	svc, tracker := newLoginService("")

	for i := 0; i < auth.MaxLoginAttempts; i++ {
		tracker.RecordFailure("172.16.5.5")
	}

	err := svc.Login(context.Background(), "anything", "172.16.5.5")
	var banErr *services.BannedError
	require.True(t, errors.As(err, &banErr))
	assert.False(t, errors.Is(err, models.ErrSecretNotConfigured))
}
