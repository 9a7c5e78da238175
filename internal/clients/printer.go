package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"

	"github.com/bentheitguy/printgate/internal/config"
	"github.com/bentheitguy/printgate/internal/models"
)

// PrinterClient talks to the receipt-printer service that holds the print
// queue. The dashboard proxies these calls so they sit behind the session
// gate instead of being hit from the browser directly.
type PrinterClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewPrinterClient creates a client for the configured printer service.
func NewPrinterClient(cfg config.PrinterConfig, logger *slog.Logger) *PrinterClient {
	return &PrinterClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// jobEntry is the per-job value in the upstream /jobs map.
type jobEntry struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   *models.JobData `json:"data,omitempty"`
}

// ListJobs fetches the full print queue. The upstream API returns an object
// keyed by job ID; the result is flattened to a slice sorted by ID.
func (c *PrinterClient) ListJobs(ctx context.Context) ([]models.PrintJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs", nil)
	if err != nil {
		return nil, fmt.Errorf("build jobs request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Details:    string(body),
		}
	}

	var raw map[string]jobEntry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	jobs := make([]models.PrintJob, 0, len(raw))
	for id, entry := range raw {
		status := entry.Status
		if status == "done" {
			// The printer reports finished jobs as "done"; the dashboard's
			// vocabulary is "success".
			status = "success"
		}
		jobs = append(jobs, models.PrintJob{
			ID:     id,
			Status: status,
			Error:  entry.Error,
			Data:   entry.Data,
		})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })

	return jobs, nil
}

// Print resubmits a formatted posting to the printer.
func (c *PrinterClient) Print(ctx context.Context, job models.PrintRequest) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode print request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/print/job", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build print request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit print job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("print submission rejected",
			slog.Int("status", resp.StatusCode))
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Details:    string(body),
		}
	}

	return nil
}

// DeleteJob removes one job from the printer's queue.
func (c *PrinterClient) DeleteJob(ctx context.Context, jobID string) error {
	endpoint := c.baseURL + "/jobs/" + url.PathEscape(jobID)
	return c.delete(ctx, endpoint)
}

// DeleteAllJobs clears the printer's queue.
func (c *PrinterClient) DeleteAllJobs(ctx context.Context) error {
	return c.delete(ctx, c.baseURL+"/jobs")
}

func (c *PrinterClient) delete(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete jobs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Details:    string(body),
		}
	}

	return nil
}
