package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bentheitguy/printgate/internal/auth"
	"github.com/bentheitguy/printgate/internal/models"
	"github.com/bentheitguy/printgate/internal/services"
	pkghttp "github.com/bentheitguy/printgate/pkg/http"
)

// Ban and rejection messages shown by the dashboard. The two ban variants
// differ only in "now": one for the request that triggered the ban, one for
// every request after it.
const (
	msgBanned         = "Too many failed attempts. This IP address is permanently banned until server restart."
	msgNewlyBanned    = "Too many failed attempts. This IP address is now permanently banned until server restart."
	msgInvalidFormat  = "Invalid password. %d attempts remaining before IP ban."
	msgInternalError  = "Internal server error"
	msgInvalidRequest = "Invalid request body"
)

// LoginServiceInterface defines the interface for the login sequence
type LoginServiceInterface interface {
	Login(ctx context.Context, password, clientID string) error
}

// AuthHandler handles the password gate: login, logout, and session checks.
type AuthHandler struct {
	service       LoginServiceInterface
	ipConfig      *pkghttp.IPConfig
	sessionMaxAge int
}

// NewAuthHandler creates a new AuthHandler. sessionMaxAge is in seconds.
func NewAuthHandler(service LoginServiceInterface, ipConfig *pkghttp.IPConfig, sessionMaxAge int) *AuthHandler {
	return &AuthHandler{
		service:       service,
		ipConfig:      ipConfig,
		sessionMaxAge: sessionMaxAge,
	}
}

// LoginRequest represents the request body for login. The browser sends the
// plaintext password plus an optional salted digest; the plaintext field is
// the authoritative credential, the digest exists for client-side hygiene
// and is not re-verified here.
type LoginRequest struct {
	Password       string `json:"password" validate:"required"`
	Salt           string `json:"salt,omitempty" validate:"omitempty,len=32,hexadecimal"`
	HashedPassword string `json:"hashedPassword,omitempty" validate:"omitempty,len=64,hexadecimal"`
}

// SuccessResponse is the body for login/logout outcomes.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// CheckResponse is the body for the session polling endpoint.
type CheckResponse struct {
	Authenticated bool `json:"authenticated"`
}

// Login handles the password submission.
// Sequencing: resolve identifier, ban check, verify, record, issue cookie.
// Validation failures return before the tracker is touched, so malformed
// requests never count as attempts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, msgInvalidRequest)
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	clientID := pkghttp.ExtractClientIP(r, h.ipConfig)

	if err := h.service.Login(r.Context(), req.Password, clientID); err != nil {
		var banErr *services.BannedError
		var credErr *services.CredentialError
		switch {
		case errors.As(err, &banErr):
			if banErr.NewlyBanned {
				pkghttp.WriteTooManyRequests(w, msgNewlyBanned)
			} else {
				pkghttp.WriteTooManyRequests(w, msgBanned)
			}
		case errors.As(err, &credErr):
			pkghttp.WriteUnauthorized(w, fmt.Sprintf(msgInvalidFormat, credErr.RemainingAttempts))
		case errors.Is(err, models.ErrSecretNotConfigured):
			pkghttp.WriteInternalError(w, msgInternalError)
		default:
			pkghttp.WriteInternalError(w, msgInternalError)
		}
		return
	}

	auth.SetSessionCookie(w, h.sessionMaxAge)
	pkghttp.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Check reports whether the request carries a valid session. Always 200;
// any internal problem degrades to authenticated=false rather than an error.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, CheckResponse{
		Authenticated: auth.IsAuthenticated(r),
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	pkghttp.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
