package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bentheitguy/printgate/internal/models"
	pkghttp "github.com/bentheitguy/printgate/pkg/http"
	"github.com/go-chi/chi/v5"
)

// PrintQueue defines the interface to the receipt-printer service
type PrintQueue interface {
	ListJobs(ctx context.Context) ([]models.PrintJob, error)
	Print(ctx context.Context, job models.PrintRequest) error
	DeleteJob(ctx context.Context, jobID string) error
	DeleteAllJobs(ctx context.Context) error
}

// JobsHandler proxies the printer's job queue behind the session gate.
type JobsHandler struct {
	printer PrintQueue
}

// NewJobsHandler creates a new JobsHandler
func NewJobsHandler(printer PrintQueue) *JobsHandler {
	return &JobsHandler{printer: printer}
}

// JobsResponse is the body for the job listing endpoint.
type JobsResponse struct {
	Success bool              `json:"success"`
	Jobs    []models.PrintJob `json:"jobs"`
}

// List handles GET /api/jobs.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.printer.ListJobs(r.Context())
	if err != nil {
		writeUpstreamError(w, err, msgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, JobsResponse{Success: true, Jobs: jobs})
}

// Print handles POST /api/jobs/print, resubmitting a formatted posting to
// the printer. Unformatted jobs (no title/company/description yet) cannot be
// printed directly; the dashboard resubmits those through the webhook first.
func (h *JobsHandler) Print(w http.ResponseWriter, r *http.Request) {
	var req models.PrintRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, msgInvalidRequest)
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "Missing formatted job data: "+err.Error())
		return
	}

	if err := h.printer.Print(r.Context(), req); err != nil {
		writeUpstreamError(w, err, msgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Delete handles DELETE /api/jobs/{jobID}.
func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		pkghttp.WriteBadRequest(w, "Job ID is required")
		return
	}

	if err := h.printer.DeleteJob(r.Context(), jobID); err != nil {
		writeUpstreamError(w, err, msgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// DeleteAll handles DELETE /api/jobs.
func (h *JobsHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.printer.DeleteAllJobs(r.Context()); err != nil {
		writeUpstreamError(w, err, msgInternalError)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
