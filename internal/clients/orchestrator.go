package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bentheitguy/printgate/internal/config"
	"github.com/bentheitguy/printgate/internal/models"
	"github.com/google/uuid"
)

// UpstreamError carries the status and body of a failed upstream call so
// handlers can propagate them to the dashboard.
type UpstreamError struct {
	StatusCode int
	Status     string
	Details    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %s: %s", e.Status, e.Details)
}

func (e *UpstreamError) Unwrap() error { return models.ErrUpstreamUnavailable }

// OrchestratorClient talks to the workflow orchestrator: it fires the
// job-submission webhook and reads execution status from the v1 API.
type OrchestratorClient struct {
	baseURL   string
	webhookID string
	authToken string
	apiKey    string
	client    *http.Client
	logger    *slog.Logger
}

// NewOrchestratorClient creates a client for the configured orchestrator.
func NewOrchestratorClient(cfg config.OrchestratorConfig, logger *slog.Logger) *OrchestratorClient {
	return &OrchestratorClient{
		baseURL:   cfg.BaseURL,
		webhookID: cfg.WebhookID,
		authToken: cfg.AuthToken,
		apiKey:    cfg.APIKey,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

// TriggerWebhook submits a job-posting URL and status to the orchestrator's
// webhook. The webhook is a GET with query parameters; the relay runs server
// side so the auth token never reaches the browser. Returns the raw upstream
// response body on success.
func (c *OrchestratorClient) TriggerWebhook(ctx context.Context, jobURL, status string) (string, error) {
	if c.authToken == "" {
		return "", models.ErrTokenNotConfigured
	}

	endpoint := fmt.Sprintf("%s/webhook/%s?url=%s&status=%s",
		c.baseURL, c.webhookID, url.QueryEscape(jobURL), url.QueryEscape(status))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Authorization", c.authToken)

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Info("relaying webhook submission",
		slog.String("request_id", requestID),
		slog.String("status", status))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call webhook: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read webhook response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("webhook relay failed",
			slog.String("request_id", requestID),
			slog.Int("status", resp.StatusCode))
		return "", &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Details:    string(body),
		}
	}

	return string(body), nil
}

// ExecutionStatus fetches one workflow execution and derives the dashboard's
// progress view from it.
func (c *OrchestratorClient) ExecutionStatus(ctx context.Context, executionID string) (*models.ExecutionStatus, error) {
	if c.apiKey == "" {
		return nil, models.ErrTokenNotConfigured
	}

	endpoint := fmt.Sprintf("%s/api/v1/executions/%s", c.baseURL, url.PathEscape(executionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build execution request: %w", err)
	}
	req.Header.Set("X-N8N-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch execution: %w", err)
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

	var exec models.Execution
	if err := json.NewDecoder(resp.Body).Decode(&exec); err != nil {
		return nil, fmt.Errorf("decode execution: %w", err)
	}

	return deriveExecutionStatus(executionID, &exec), nil
}

// deriveExecutionStatus flattens the raw execution payload into the summary
// the dashboard renders.
func deriveExecutionStatus(executionID string, exec *models.Execution) *models.ExecutionStatus {
	status := exec.Status
	if status == "" {
		status = "unknown"
	}

	return &models.ExecutionStatus{
		ExecutionID: executionID,
		Status:      status,
		StartedAt:   exec.StartedAt,
		StoppedAt:   exec.StoppedAt,
		Mode:        exec.Mode,
		WorkflowID:  exec.WorkflowID,
		CurrentStep: currentStep(exec),
		Steps:       executionSteps(exec),
		Progress:    executionProgress(exec),
		Error:       exec.Error,
		Data:        exec.Data,
	}
}

// currentStep names the node that ran last. Node order follows the upstream
// payload, which emits nodes in execution order.
func currentStep(exec *models.Execution) string {
	if exec.Data == nil {
		return ""
	}
	if exec.Data.Len() == 0 {
		return "Starting workflow..."
	}
	return "Executing: " + exec.Data.Order[exec.Data.Len()-1]
}

func executionSteps(exec *models.Execution) []models.ExecutionStep {
	if exec.Data == nil {
		status := "pending"
		if exec.Status == "running" {
			status = "running"
		}
		return []models.ExecutionStep{{Step: "Initialize workflow", Status: status}}
	}

	steps := make([]models.ExecutionStep, 0, exec.Data.Len())
	for _, name := range exec.Data.Order {
		runs := exec.Data.Runs[name]
		if len(runs) == 0 {
			continue
		}
		last := runs[len(runs)-1]

		status := "completed"
		if last.Error != "" {
			status = "error"
		}

		timestamp := last.StartTime
		if timestamp == "" {
			timestamp = last.ExecutionTime
		}

		steps = append(steps, models.ExecutionStep{
			Step:      name,
			Status:    status,
			Timestamp: timestamp,
		})
	}
	return steps
}

// executionProgress estimates completion from executed nodes, capped at 90%
// until the workflow reports success.
func executionProgress(exec *models.Execution) int {
	switch {
	case exec.Status == "success":
		return 100
	case exec.Status == "error":
		return 0
	case exec.Data == nil:
		return 10
	}

	progress := exec.Data.Len() * 20
	if progress > 90 {
		return 90
	}
	return progress
}
