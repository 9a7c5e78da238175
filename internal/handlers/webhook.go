package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bentheitguy/printgate/internal/clients"
	"github.com/bentheitguy/printgate/internal/models"
	pkghttp "github.com/bentheitguy/printgate/pkg/http"
)

// WebhookRelay defines the interface for triggering the orchestrator webhook
type WebhookRelay interface {
	TriggerWebhook(ctx context.Context, jobURL, status string) (string, error)
}

// WebhookHandler relays job submissions to the workflow orchestrator so the
// auth token stays server side.
type WebhookHandler struct {
	relay WebhookRelay
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(relay WebhookRelay) *WebhookHandler {
	return &WebhookHandler{relay: relay}
}

// WebhookRequest is a job-posting submission from the dashboard.
type WebhookRequest struct {
	URL    string `json:"url" validate:"required,url"`
	Status string `json:"status" validate:"required"`
}

// WebhookResponse reports the relay outcome, carrying the orchestrator's raw
// reply for the dashboard's expandable detail view.
type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Relay handles POST /api/webhook.
func (h *WebhookHandler) Relay(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, msgInvalidRequest)
		return
	}

	if req.URL == "" || req.Status == "" {
		pkghttp.WriteBadRequest(w, "URL and status are required")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.relay.TriggerWebhook(r.Context(), req.URL, req.Status)
	if err != nil {
		writeUpstreamError(w, err, "API token not configured")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, WebhookResponse{
		Success: true,
		Message: fmt.Sprintf("Job %s successfully!", req.Status),
		Data:    result,
	})
}

// writeUpstreamError maps client errors shared by the relay handlers:
// missing tokens are deployment problems (500), upstream failures keep their
// status and details.
func writeUpstreamError(w http.ResponseWriter, err error, tokenMsg string) {
	var upErr *clients.UpstreamError
	switch {
	case errors.Is(err, models.ErrTokenNotConfigured):
		pkghttp.WriteInternalError(w, tokenMsg)
	case errors.As(err, &upErr):
		pkghttp.WriteError(w, upErr.StatusCode,
			fmt.Sprintf("Upstream request failed: %s: %s", upErr.Status, upErr.Details))
	default:
		pkghttp.WriteInternalError(w, msgInternalError)
	}
}
