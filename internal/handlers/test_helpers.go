package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bentheitguy/printgate/internal/auth"
	"github.com/bentheitguy/printgate/internal/models"
	pkghttp "github.com/bentheitguy/printgate/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithSessionCookie attaches a valid session cookie for testing protected endpoints
func WithSessionCookie(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: auth.SessionToken})
	return req
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	if target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
	}
}

// AssertErrorResponse checks for the standard {success:false, error:...} body
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) pkghttp.ErrorResponse {
	t.Helper()
	var resp pkghttp.ErrorResponse
	AssertJSONResponse(t, w, expectedStatus, &resp)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	return resp
}

// MockLoginService implements LoginServiceInterface for testing
type MockLoginService struct {
	LoginFunc func(ctx context.Context, password, clientID string) error
	Calls     int
}

func (m *MockLoginService) Login(ctx context.Context, password, clientID string) error {
	m.Calls++
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, password, clientID)
	}
	return nil
}

// MockWebhookRelay implements WebhookRelay for testing
type MockWebhookRelay struct {
	TriggerFunc func(ctx context.Context, jobURL, status string) (string, error)
}

func (m *MockWebhookRelay) TriggerWebhook(ctx context.Context, jobURL, status string) (string, error) {
	if m.TriggerFunc != nil {
		return m.TriggerFunc(ctx, jobURL, status)
	}
	return "", nil
}

// MockExecutionFetcher implements ExecutionStatusFetcher for testing
type MockExecutionFetcher struct {
	StatusFunc func(ctx context.Context, executionID string) (*models.ExecutionStatus, error)
}

func (m *MockExecutionFetcher) ExecutionStatus(ctx context.Context, executionID string) (*models.ExecutionStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, executionID)
	}
	return &models.ExecutionStatus{ExecutionID: executionID}, nil
}

// MockPrintQueue implements PrintQueue for testing
type MockPrintQueue struct {
	ListFunc      func(ctx context.Context) ([]models.PrintJob, error)
	PrintFunc     func(ctx context.Context, job models.PrintRequest) error
	DeleteFunc    func(ctx context.Context, jobID string) error
	DeleteAllFunc func(ctx context.Context) error
}

func (m *MockPrintQueue) ListJobs(ctx context.Context) ([]models.PrintJob, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockPrintQueue) Print(ctx context.Context, job models.PrintRequest) error {
	if m.PrintFunc != nil {
		return m.PrintFunc(ctx, job)
	}
	return nil
}

func (m *MockPrintQueue) DeleteJob(ctx context.Context, jobID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, jobID)
	}
	return nil
}

func (m *MockPrintQueue) DeleteAllJobs(ctx context.Context) error {
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return nil
}
