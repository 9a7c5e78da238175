package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bentheitguy/printgate/internal/auth"
	"github.com/bentheitguy/printgate/internal/models"
	pkglogger "github.com/bentheitguy/printgate/pkg/logger"
)

// BannedError reports that the client identifier is banned. NewlyBanned
// distinguishes the failure that triggered the ban from requests arriving
// while already banned; the dashboard shows slightly different wording.
type BannedError struct {
	NewlyBanned bool
}

func (e *BannedError) Error() string {
	if e.NewlyBanned {
		return "ip address is now banned"
	}
	return "ip address is banned"
}

func (e *BannedError) Unwrap() error { return models.ErrIPBanned }

// CredentialError reports a wrong password along with how many attempts the
// identifier has left before a ban.
type CredentialError struct {
	RemainingAttempts int
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("invalid password, %d attempts remaining", e.RemainingAttempts)
}

func (e *CredentialError) Unwrap() error { return models.ErrInvalidCredentials }

// LoginService ties the ban check, credential verification, and attempt
// bookkeeping into the login sequence. The ban check runs before the
// verifier so a banned identifier never exercises the credential path.
type LoginService struct {
	verifier *auth.Verifier
	tracker  *auth.AttemptTracker
	timing   *auth.TimingDelay
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
}

// NewLoginService creates a LoginService.
func NewLoginService(
	verifier *auth.Verifier,
	tracker *auth.AttemptTracker,
	timing *auth.TimingDelay,
	logger *slog.Logger,
	audit *pkglogger.AuditLogger,
) *LoginService {
	return &LoginService{
		verifier: verifier,
		tracker:  tracker,
		timing:   timing,
		logger:   logger,
		audit:    audit,
	}
}

// Login runs one login attempt for the given client identifier. A nil return
// means the credential was accepted and the caller should issue the session
// cookie. Input validation is the caller's job: an empty password must be
// rejected with a validation error before this is called, so malformed
// requests never count as attempts.
func (s *LoginService) Login(ctx context.Context, password, clientID string) error {
	if s.tracker.IsBanned(clientID) {
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login",
			ClientIP:      clientID,
			Success:       false,
			FailureReason: "banned",
		})
		return &BannedError{NewlyBanned: false}
	}

	ok, err := s.verifier.Verify(password)
	if err != nil {
		// Configuration failure: not the client's fault, not counted.
		s.logger.Error("credential verification unavailable", slog.Any("error", err))
		return fmt.Errorf("verify credential: %w", err)
	}

	if ok {
		s.tracker.RecordSuccess(clientID)
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType: "login",
			ClientIP:  clientID,
			Success:   true,
		})
		s.timing.Wait(true)
		return nil
	}

	res := s.tracker.RecordFailure(clientID)
	digest := pkglogger.DigestPrefix(auth.HashCredential(password, ""))
	s.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     "login",
		ClientIP:      clientID,
		Success:       false,
		FailureReason: "invalid_password",
		AttemptCount:  auth.MaxLoginAttempts - res.RemainingAttempts,
		DigestPrefix:  digest,
	})
	s.timing.Wait(false)

	if res.Banned {
		return &BannedError{NewlyBanned: true}
	}
	return &CredentialError{RemainingAttempts: res.RemainingAttempts}
}

// IsBanned exposes the tracker's ban state for the given identifier.
func (s *LoginService) IsBanned(clientID string) bool {
	return s.tracker.IsBanned(clientID)
}
