package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "performative-scorer/internal/errors"
	"performative-scorer/pkg/models"

	"github.com/gin-gonic/gin"
)

// stubService returns a fixed result or error.
type stubService struct {
	result *models.ScoreResult
	err    error
}

func (s *stubService) Analyze(ctx context.Context, imageData []byte) (*models.ScoreResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubService) Health(ctx context.Context) models.HealthStatus {
	return models.HealthStatus{
		Status:    "healthy",
		Device:    "cpu",
		Timestamp: time.Now().UTC(),
	}
}

func newTestHandler(svc *stubService) http.Handler {
	gin.SetMode(gin.TestMode)
	return NewHandler(svc, HandlerConfig{
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	})
}

func multipartImage(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, "photo.png")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestAnalyzeEndpoint_Success(t *testing.T) {
	svc := &stubService{result: &models.ScoreResult{
		Score:   42,
		Message: "Moderate performative energy. You're dipping your toes in the indie waters.",
	}}
	handler := newTestHandler(svc)

	body, contentType := multipartImage(t, "image", []byte("fake image bytes"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result models.ScoreResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Score != 42 {
		t.Errorf("Expected score 42, got %d", result.Score)
	}
	if result.Message == "" {
		t.Error("Expected message in response")
	}
}

func TestAnalyzeEndpoint_MissingImage(t *testing.T) {
	handler := newTestHandler(&stubService{result: &models.ScoreResult{}})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "No image provided" {
		t.Errorf("Expected %q, got %q", "No image provided", resp.Error)
	}
}

func TestAnalyzeEndpoint_EmptyImage(t *testing.T) {
	handler := newTestHandler(&stubService{result: &models.ScoreResult{}})

	body, contentType := multipartImage(t, "image", nil)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "Empty image file" {
		t.Errorf("Expected %q, got %q", "Empty image file", resp.Error)
	}
}

func TestAnalyzeEndpoint_InvalidImageStatus(t *testing.T) {
	svc := &stubService{err: apperrors.NewInvalidImageError("undecodable image bytes", nil)}
	handler := newTestHandler(svc)

	body, contentType := multipartImage(t, "image", []byte("garbage"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid image, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "undecodable image bytes" {
		t.Errorf("Expected client error message passed through, got %q", resp.Error)
	}
}

func TestAnalyzeEndpoint_InternalErrorHidesDetail(t *testing.T) {
	svc := &stubService{err: apperrors.NewInternalError("redis password leaked in message", nil)}
	handler := newTestHandler(svc)

	body, contentType := multipartImage(t, "image", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "Analysis failed" {
		t.Errorf("Expected stable 5xx message, got %q", resp.Error)
	}
}

func TestAnalyzeEndpoint_TimeoutStatus(t *testing.T) {
	svc := &stubService{err: apperrors.NewTimeoutError("image analysis timed out", nil)}
	handler := newTestHandler(svc)

	body, contentType := multipartImage(t, "image", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("Expected 504 for timeout, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var status models.HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("Expected healthy, got %q", status.Status)
	}
	if status.Device != "cpu" {
		t.Errorf("Expected cpu device, got %q", status.Device)
	}
}
