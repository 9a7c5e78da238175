package handlers

import (
	"context"
	"net/http"

	"github.com/bentheitguy/printgate/internal/models"
	pkghttp "github.com/bentheitguy/printgate/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ExecutionStatusFetcher defines the interface for reading workflow progress
type ExecutionStatusFetcher interface {
	ExecutionStatus(ctx context.Context, executionID string) (*models.ExecutionStatus, error)
}

// WorkflowHandler serves workflow execution status to the dashboard's
// polling view.
type WorkflowHandler struct {
	orchestrator ExecutionStatusFetcher
}

// NewWorkflowHandler creates a new WorkflowHandler
func NewWorkflowHandler(orchestrator ExecutionStatusFetcher) *WorkflowHandler {
	return &WorkflowHandler{orchestrator: orchestrator}
}

// ExecutionStatusResponse wraps the derived status summary.
type ExecutionStatusResponse struct {
	Success   bool                    `json:"success"`
	Execution *models.ExecutionStatus `json:"execution"`
}

// Status handles GET /api/workflow-status/{executionID}.
func (h *WorkflowHandler) Status(w http.ResponseWriter, r *http.Request) {
	executionID := chi.URLParam(r, "executionID")
	if executionID == "" {
		pkghttp.WriteBadRequest(w, "Execution ID is required")
		return
	}

	status, err := h.orchestrator.ExecutionStatus(r.Context(), executionID)
	if err != nil {
		writeUpstreamError(w, err, "N8N API key not configured")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, ExecutionStatusResponse{
		Success:   true,
		Execution: status,
	})
}
